package contract

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:     10,
		Precision: 2,
		Output:    "text",
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	now := time.Date(2024, time.March, 17, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"explicit window", func(in *ConfigRawInput) { in.Start, in.End = "2024-02-01", "29/02/2024" }, false},
		{"inverted window", func(in *ConfigRawInput) { in.Start, in.End = "2024-03-10", "2024-03-01" }, true},
		{"bad start", func(in *ConfigRawInput) { in.Start = "last week" }, true},
		{"zero limit", func(in *ConfigRawInput) { in.Limit = 0 }, true},
		{"huge limit", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, true},
		{"bad precision", func(in *ConfigRawInput) { in.Precision = 3 }, true},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"parquet output", func(in *ConfigRawInput) { in.Output = "PARQUET" }, false},
		{"bad color", func(in *ConfigRawInput) { in.Color = "sometimes" }, true},
		{"relative source url", func(in *ConfigRawInput) { in.SourceURL = "/exec" }, true},
		{"https source url", func(in *ConfigRawInput) { in.SourceURL = "https://script.example.com/exec" }, false},
		{"bad ttl", func(in *ConfigRawInput) { in.CacheTTL = "forever" }, true},
		{"zero ttl", func(in *ConfigRawInput) { in.CacheTTL = "0s" }, false},
		{"bad timeout", func(in *ConfigRawInput) { in.HTTPTimeout = "0s" }, true},
		{"bad cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }, true},
		{"mysql without dsn", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, true},
		{"mysql with dsn", func(in *ConfigRawInput) {
			in.CacheBackend = "mysql"
			in.CacheDBConnect = "user:pass@tcp(localhost:3306)/incentive"
		}, false},
		{"postgres missing dbname", func(in *ConfigRawInput) {
			in.RunsBackend = "postgresql"
			in.RunsDBConnect = "host=localhost user=postgres"
		}, true},
		{"bad runs backend", func(in *ConfigRawInput) { in.RunsBackend = "mongo" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			cfg := &Config{}
			err := processAndValidateAt(cfg, in, now)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	now := time.Date(2024, time.March, 17, 23, 30, 0, 0, time.UTC)
	cfg := &Config{}
	require.NoError(t, processAndValidateAt(cfg, validInput(), now))

	assert.Equal(t, "2024-03-01", cfg.Window.Start.String())
	assert.Equal(t, "2024-03-17", cfg.Window.End.String())
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultOperationsTab, cfg.OperationsTab)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.DatabaseBackend(""), cfg.RunsBackend)
	assert.Equal(t, DefaultKafkaTopic, cfg.KafkaTopic)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.True(t, cfg.UseColors)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestProcessAndValidateLists(t *testing.T) {
	in := validInput()
	in.KafkaBrokers = "kafka-1:9092, kafka-2:9092,,"
	in.AllowedOrigins = "http://localhost:3000"
	in.Query = "  ana "
	cfg := &Config{}
	require.NoError(t, processAndValidateAt(cfg, in, time.Now()))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "ana", cfg.Search)

	in.SearchTerm = "carlos"
	require.NoError(t, processAndValidateAt(cfg, in, time.Now()))
	assert.Equal(t, "carlos", cfg.Search, "positional term wins over --query")
}

func TestValidateBackendConfigsSQLiteConflict(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.db")
	in := validInput()
	in.CacheBackend = "sqlite"
	in.CacheDBConnect = shared
	in.RunsBackend = "sqlite"
	in.RunsDBConnect = shared

	err := validateBackendConfigs(&Config{}, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	in.RunsDBConnect = ""
	assert.NoError(t, validateBackendConfigs(&Config{}, in))
}

func TestParseWindow(t *testing.T) {
	base := schema.Window{Start: schema.MustParseDate("2024-03-01"), End: schema.MustParseDate("2024-03-31")}

	w, err := ParseWindow("", "2024-03-15", base)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", w.Start.String())
	assert.Equal(t, "2024-03-15", w.End.String())

	_, err = ParseWindow("2024-04-01", "", base)
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	_, err = ParseWindow("garbage", "", base)
	assert.True(t, errors.Is(err, ErrInvalidWindow))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{KafkaBrokers: []string{"a"}, AllowedOrigins: []string{"x"}}
	clone := cfg.CloneWithWindow(schema.Window{Start: schema.MustParseDate("2024-01-01"), End: schema.MustParseDate("2024-01-31")})
	clone.KafkaBrokers[0] = "b"
	assert.Equal(t, "a", cfg.KafkaBrokers[0])
	assert.Equal(t, "2024-01-01", clone.Window.Start.String())
	assert.True(t, cfg.Window.Start.IsZero())
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	ProcessProfilingConfig(profile, "  ")
	assert.False(t, profile.Enabled)

	ProcessProfilingConfig(profile, "out/report")
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/report", profile.Prefix)
}
