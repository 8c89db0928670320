package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/incentive/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit   = 25
	MaxResultLimit       = 1000
	DefaultPrecision     = 2
	DefaultCacheTTL      = 12 * time.Hour
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultOperationsTab = "Base_Rotas_2026"
	DefaultKafkaTopic    = "incentive.reports"
	DefaultListenAddr    = ":8080"
)

// Config holds the runtime configuration for a computation.
// This struct is the "final, validated" config.
type Config struct {
	Window      schema.Window
	BaseFilter  string
	Coordinator string
	Search      string
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Width       int // Terminal width override (0 = auto-detect)

	SourceURL     string
	SourceDir     string
	OperationsTab string
	CacheTTL      time.Duration
	Refresh       bool
	HTTPTimeout   time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	KafkaBrokers []string
	KafkaTopic   string

	ListenAddr     string
	AllowedOrigins []string

	UseColors bool // Enable colored labels in table output
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SearchTerm string

	// --- Fields from rootCmd.PersistentFlags() ---
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	Base           string `mapstructure:"base"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Detail         bool   `mapstructure:"detail"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	SourceURL      string `mapstructure:"source-url"`
	SourceDir      string `mapstructure:"source-dir"`
	OperationsTab  string `mapstructure:"operations-tab"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	Refresh        bool   `mapstructure:"refresh"`
	HTTPTimeout    string `mapstructure:"http-timeout"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	KafkaBrokers   string `mapstructure:"kafka-brokers"`
	KafkaTopic     string `mapstructure:"kafka-topic"`

	// --- Fields from compareCmd.Flags() and bankCmd.Flags() ---
	Coordinator string `mapstructure:"coordinator"`
	Query       string `mapstructure:"query"`

	// --- Fields from serveCmd.Flags() ---
	Listen         string `mapstructure:"listen"`
	AllowedOrigins string `mapstructure:"allowed-origins"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.KafkaBrokers != nil {
		clone.KafkaBrokers = append([]string(nil), c.KafkaBrokers...)
	}
	if c.AllowedOrigins != nil {
		clone.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	}
	return &clone
}

// CloneWithWindow creates a copy of the Config with a new reporting window.
func (c *Config) CloneWithWindow(w schema.Window) *Config {
	clone := c.Clone()
	clone.Window = w
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	return processAndValidateAt(cfg, input, time.Now())
}

func processAndValidateAt(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input, now); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	processServing(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for the host:port part")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run-history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Run Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidCacheBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// Cache and runs must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		runsDBPath := cfg.RunsDBConnect
		if runsDBPath == "" {
			runsDBPath = GetRunsDBFilePath()
		}
		if cacheDBPath == runsDBPath {
			return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseFilter = strings.TrimSpace(input.Base)
	cfg.Coordinator = strings.TrimSpace(input.Coordinator)
	cfg.Search = strings.TrimSpace(input.SearchTerm)
	if cfg.Search == "" {
		cfg.Search = strings.TrimSpace(input.Query)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.Refresh = input.Refresh

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	return nil
}

// processWindow parses the reporting window. Without dates it covers the
// current month up to today.
func processWindow(cfg *Config, input *ConfigRawInput, now time.Time) error {
	today := schema.DateOf(now)
	cfg.Window = schema.Window{
		Start: schema.Date{Year: today.Year, Month: today.Month, Day: 1},
		End:   today,
	}

	if input.Start != "" {
		d, err := schema.ParseDate(input.Start)
		if err != nil {
			return fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
		}
		cfg.Window.Start = d
	}
	if input.End != "" {
		d, err := schema.ParseDate(input.End)
		if err != nil {
			return fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
		}
		cfg.Window.End = d
	}
	return ValidateWindow(cfg.Window)
}

// ValidateWindow rejects windows whose start is after their end.
func ValidateWindow(w schema.Window) error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: both start and end are required", ErrInvalidWindow)
	}
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: start (%s) cannot be after end (%s)", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

// ParseWindow parses a start and end pair, falling back to base for blanks.
func ParseWindow(start, end string, base schema.Window) (schema.Window, error) {
	w := base
	if start != "" {
		d, err := schema.ParseDate(start)
		if err != nil {
			return w, fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
		}
		w.Start = d
	}
	if end != "" {
		d, err := schema.ParseDate(end)
		if err != nil {
			return w, fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
		}
		w.End = d
	}
	return w, ValidateWindow(w)
}

// processSource validates where sheet data is read from and how it is cached.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceDir = strings.TrimSpace(input.SourceDir)
	cfg.SourceURL = strings.TrimSpace(input.SourceURL)
	if cfg.SourceURL != "" {
		u, err := url.Parse(cfg.SourceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("source-url must be an absolute http(s) URL (received %q)", cfg.SourceURL)
		}
	}

	cfg.OperationsTab = strings.TrimSpace(input.OperationsTab)
	if cfg.OperationsTab == "" {
		cfg.OperationsTab = DefaultOperationsTab
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil || ttl < 0 {
			return fmt.Errorf("cache-ttl must be a non-negative duration such as 12h (received %q)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if input.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(input.HTTPTimeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("http-timeout must be a positive duration such as 30s (received %q)", input.HTTPTimeout)
		}
		cfg.HTTPTimeout = timeout
	}
	return nil
}

// processServing handles event publishing and HTTP serving settings.
func processServing(cfg *Config, input *ConfigRawInput) {
	cfg.KafkaBrokers = splitList(input.KafkaBrokers)
	cfg.KafkaTopic = strings.TrimSpace(input.KafkaTopic)
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = DefaultKafkaTopic
	}
	cfg.ListenAddr = strings.TrimSpace(input.Listen)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	cfg.AllowedOrigins = splitList(input.AllowedOrigins)
}

func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}
