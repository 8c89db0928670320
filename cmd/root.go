package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/incentive/core"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/internal/iocache"
	"github.com/huangsam/incentive/internal/metrics"
	"github.com/huangsam/incentive/internal/publish"
	"github.com/huangsam/incentive/internal/source"
	"github.com/huangsam/incentive/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// deps are the collaborators built by sharedSetup.
var deps core.Deps

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	// Start CPU profiling
	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	// Write memory profile
	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "incentive",
	Short:              "Compute tiered incentive payouts for logistics bases.",
	Long:               `Incentive reads the operations, goals and compliance sheets of a delivery network and shows what each base earns across its pillars.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigPaths()

	// Set environment variable prefix
	viper.SetEnvPrefix("INCENTIVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("operations-tab", contract.DefaultOperationsTab)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("runs-backend", "")
	viper.SetDefault("runs-db-connect", "")
	viper.SetDefault("kafka-topic", contract.DefaultKafkaTopic)
	viper.SetDefault("listen", contract.DefaultListenAddr)
	viper.SetDefault("color", "yes")
}

// setConfigPaths points viper at --config or the default .incentive.yaml locations.
func setConfigPaths() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".incentive") // Name of config file (without extension)
	viper.SetConfigType("yaml")       // We'll use YAML format
	viper.AddConfigPath(".")          // Look in the current directory
	viper.AddConfigPath("$HOME")      // Look in the home directory
}

// sharedSetup unmarshals config, runs validation and builds the collaborators.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// Handle profiling flag
	contract.ProcessProfilingConfig(profile, viper.GetString("profile"))
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.SearchTerm = ""
	if len(args) == 1 {
		input.SearchTerm = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return buildDeps()
}

// buildDeps wires the data source, metrics and the optional publisher.
func buildDeps() error {
	m := metrics.New()
	src, err := source.NewFromConfig(cfg, iocache.Manager.GetSheetStore(), m)
	if err != nil {
		if errors.Is(err, contract.ErrNoSource) {
			return fmt.Errorf("%w: set --source-url or --source-dir", err)
		}
		return err
	}
	deps = core.Deps{Source: src, Manager: iocache.Manager, Metrics: m}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := publish.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("failed to initialize publisher: %w", err)
		}
		deps.Publisher = pub
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigPaths()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Close releases the publisher built by sharedSetup.
func Close() {
	if deps.Publisher != nil {
		if err := deps.Publisher.Close(); err != nil {
			contract.LogWarn("Failed to close publisher", err)
		}
	}
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
