package source

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
)

// cellText renders any JSON cell as trimmed text.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// cleanNumber strips currency and percent marks and accepts either a decimal
// comma or a decimal point. "1.234,5" reads as 1234.5.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// parseNumber reads a numeric cell. The second value is false for empty or
// malformed cells.
func parseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case bool:
		return 0, false
	}
	s := cleanNumber(cellText(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseCount reads a count cell, rounding fractional values. Bad cells read as 0.
func parseCount(v any) int {
	f, ok := parseNumber(v)
	if !ok {
		return 0
	}
	return int(math.Round(f))
}

// parseMoney reads a monetary cell without going through float64 for text values.
func parseMoney(v any) (decimal.Decimal, bool) {
	if f, ok := v.(float64); ok {
		return decimal.NewFromFloat(f), true
	}
	s := cleanNumber(cellText(v))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseFlag reads yes/no style cells.
func parseFlag(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(cellText(v)) {
	case "sim", "s", "yes", "y", "true", "1", "x":
		return true
	default:
		return false
	}
}

// parseComplianceStatus maps a document status to its state. "INAPTO"
// contains "APTO", so the negative form is checked first.
func parseComplianceStatus(s string) schema.ComplianceStatus {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case s == "APTO":
		return schema.Compliant
	case strings.Contains(s, "INAPTO"):
		return schema.NonCompliant
	case strings.Contains(s, "APTO"):
		return schema.Compliant
	default:
		return schema.Pending
	}
}
