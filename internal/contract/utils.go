package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/incentive/schema"
)

// Delivery band label constants.
const (
	MetValue   = "Met"   // delivery rate above the campaign target
	NearValue  = "Near"  // close to the target
	BelowValue = "Below" // below the target
	NAValue    = "N/A"   // not applicable, distinct from zero
)

// Color variables for console output.
var (
	MetColor   = color.New(color.FgGreen, color.Bold)
	NearColor  = color.New(color.FgYellow)
	BelowColor = color.New(color.FgRed, color.Bold)
	NAColor    = color.New(color.FgHiBlack)
	GainColor  = color.New(color.FgGreen)
	LossColor  = color.New(color.FgRed)
)

// GetPlainLabel returns a plain text label for a delivery band.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(band schema.DeliveryBand) string {
	switch band {
	case schema.BandMet:
		return MetValue
	case schema.BandNear:
		return NearValue
	default:
		return BelowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(band schema.DeliveryBand) string {
	text := GetPlainLabel(band)
	switch band {
	case schema.BandMet:
		return MetColor.Sprint(text)
	case schema.BandNear:
		return NearColor.Sprint(text)
	default:
		return BelowColor.Sprint(text)
	}
}

// GetAccessLabel names the volume tier a base reached.
func GetAccessLabel(tier int) string {
	if tier <= 0 {
		return "none"
	}
	return fmt.Sprintf("tier%d", tier)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr. err may be nil.
func LogWarn(msg string, err error) {
	if err == nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the sheet cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".incentive_cache.db"
	}
	return filepath.Join(homeDir, ".incentive_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".incentive_runs.db"
	}
	return filepath.Join(homeDir, ".incentive_runs.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
