package source

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{12.5, 12.5, true},
		{"12,5", 12.5, true},
		{"12.5", 12.5, true},
		{" 97,3% ", 97.3, true},
		{"R$ 1.234,50", 1234.5, true},
		{json.Number("7"), 7, true},
		{"", 0, false},
		{nil, 0, false},
		{"abc", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
	}
}

func TestParseMoney(t *testing.T) {
	d, ok := parseMoney("R$ 1.500,25")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("1500.25")))

	d, ok = parseMoney(700.0)
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(700)))

	_, ok = parseMoney("n/a")
	assert.False(t, ok)
}

func TestParseComplianceStatus(t *testing.T) {
	tests := []struct {
		in   string
		want schema.ComplianceStatus
	}{
		{"APTO", schema.Compliant},
		{" apto ", schema.Compliant},
		{"APTO - RENOVADO", schema.Compliant},
		{"INAPTO", schema.NonCompliant},
		{"INAPTO (VENCIDA)", schema.NonCompliant},
		{"EM ANÁLISE", schema.Pending},
		{"", schema.Pending},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseComplianceStatus(tt.in))
		})
	}
}

func TestCellTextAndFlags(t *testing.T) {
	assert.Equal(t, "42", cellText(42.0))
	assert.Equal(t, "LRJ01", cellText("  LRJ01 "))
	assert.Equal(t, "", cellText(nil))
	assert.Equal(t, 3, parseCount("2,6"))
	assert.Equal(t, 0, parseCount(""))

	assert.True(t, parseFlag("Sim"))
	assert.True(t, parseFlag(true))
	assert.True(t, parseFlag("X"))
	assert.False(t, parseFlag("não"))
	assert.False(t, parseFlag(nil))
}
