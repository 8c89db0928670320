// Package cmd defines the command-line interface for incentive.
package cmd

import (
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(podiumCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(lossesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("start", "", "First day of the window (YYYY-MM-DD, default: first day of this month)")
	rootCmd.PersistentFlags().String("end", "", "Last day of the window (YYYY-MM-DD, default: today)")
	rootCmd.PersistentFlags().StringP("base", "b", "", "Restrict the report to one base code")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of leaderboard entries to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("detail", false, "Print shipments, delivery success and projected payout per base")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("source-url", "", "HTTP endpoint that serves sheet tabs as JSON")
	rootCmd.PersistentFlags().String("source-dir", "", "Directory of <tab>.json files to read instead of the HTTP endpoint")
	rootCmd.PersistentFlags().String("operations-tab", contract.DefaultOperationsTab, "Name of the operations tab")
	rootCmd.PersistentFlags().String("cache-ttl", "", "How long cached sheet tabs stay fresh (e.g. 12h)")
	rootCmd.PersistentFlags().Bool("refresh", false, "Ignore cached sheet tabs and fetch again")
	rootCmd.PersistentFlags().String("http-timeout", "", "Timeout of one sheet fetch (e.g. 30s)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (SQLite files must differ from the cache)")
	rootCmd.PersistentFlags().String("kafka-brokers", "", "Comma-separated Kafka brokers to publish reports to")
	rootCmd.PersistentFlags().String("kafka-topic", contract.DefaultKafkaTopic, "Kafka topic for published reports")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("coordinator", "", "Only compare bases of this coordinator")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of bankCmd to Viper
	bankCmd.Flags().StringP("query", "q", "", "Filter by base, leader or coordinator")
	if err := viper.BindPFlags(bankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding bank flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address the HTTP server listens on")
	serveCmd.Flags().String("allowed-origins", "", "Comma-separated CORS origins")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
