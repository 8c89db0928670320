package source

import (
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperations(t *testing.T) {
	rows := []Row{
		{"Date": "2024-03-01", "Motorista": "João", "Bases": "LRJ 01", "AT": "AT-1", "Remessas": "40", "Entregues": 39.0, "Pendentes": "1", "Lider": "Carlos"},
		{"Date": "02/03/2024", "Motorista": "Ana", "Bases": "LRJ01", "AT": "", "Remessas": 30.0, "Entregues": "30"},
		// Dropped: no driver, no shipments, bad date.
		{"Date": "2024-03-02", "Motorista": "", "Bases": "LRJ01", "Remessas": "10"},
		{"Date": "2024-03-02", "Motorista": "Rui", "Bases": "LRJ01", "Remessas": ""},
		{"Date": "sometime", "Motorista": "Rui", "Bases": "LRJ01", "Remessas": "5"},
	}
	records, warnings := parseOperations("Base_Rotas_2026", rows)
	assert.Empty(t, warnings)
	require.Len(t, records, 2)

	assert.Equal(t, schema.MustParseDate("2024-03-01"), records[0].Date)
	assert.Equal(t, "LRJ 01", records[0].BaseCode)
	assert.Equal(t, "AT-1", records[0].RouteCode)
	assert.Equal(t, 40, records[0].ShipmentCount)
	assert.Equal(t, 39, records[0].DeliveredCount)
	assert.Equal(t, 1, records[0].PendingCount)
	assert.Equal(t, "Carlos", records[0].Leader)
	assert.Equal(t, 0, records[0].Ordinal)

	assert.Equal(t, schema.MustParseDate("2024-03-02"), records[1].Date)
	assert.Equal(t, "", records[1].RouteCode)
	assert.Equal(t, 1, records[1].Ordinal)
}

func TestParseOperationsMissingColumn(t *testing.T) {
	records, warnings := parseOperations("Base_Rotas_2026", []Row{{"Date": "2024-03-01", "Motorista": "João", "Bases": "LRJ01"}})
	assert.Empty(t, records)
	require.Len(t, warnings, 1)
	assert.Equal(t, schema.MissingColumn, warnings[0].Kind)
}

func TestParseCompliance(t *testing.T) {
	rows := []Row{
		{"BASE": "LRJ01", "NOME": "João", "CLIENTE": "Shopee", "SITUAÇÃO CNH": "APTO", "SITUAÇÃO MOTORISTA": "APTO", "SITUAÇÃO GR PLACA": "APTO"},
		{"BASE": "LRJ01", "NOME": "Ana", "CLIENTE": "SHOPEE", "SITUAÇÃO CNH": "INAPTO", "SITUAÇÃO MOTORISTA": "APTO", "SITUAÇÃO GR PLACA": ""},
		{"BASE": "LRJ01", "NOME": "Rui", "CLIENTE": "OUTRO", "SITUAÇÃO CNH": "APTO", "SITUAÇÃO MOTORISTA": "APTO", "SITUAÇÃO GR PLACA": "APTO"},
		{"BASE": "XPT Bonsucesso", "NOME": "Leo", "CLIENTE": "SHOPEE", "SITUAÇÃO CNH": "APTO", "SITUAÇÃO MOTORISTA": "APTO", "SITUAÇÃO GR PLACA": "APTO"},
	}
	records, warnings := parseCompliance(rows)
	assert.Empty(t, warnings)
	require.Len(t, records, 2)
	assert.True(t, records[0].Compliant())
	assert.Equal(t, schema.NonCompliant, records[1].LicenseStatus)
	assert.Equal(t, schema.Pending, records[1].RiskStatus)
}

func TestParseSurvey(t *testing.T) {
	rows := []Row{
		{"BASE_OP": "LRJ 01", "NOTA_PROTAGONISMO": "8"},
		{"BASE_OP": "lrj01", "NOTA_PROTAGONISMO": 9.0},
		{"BASE_OP": "LAJ02", "NOTA_PROTAGONISMO": "7,5"},
		{"BASE_OP": "LRJ03", "NOTA_PROTAGONISMO": "—"},
		{"BASE_OP": "", "NOTA_PROTAGONISMO": "10"},
	}
	scores, _ := parseSurvey(rows)
	require.Len(t, scores, 2)
	assert.Equal(t, schema.ProtagonismScore{BaseCode: "LRJ01", AverageScore: 8.5, Responses: 2}, scores[0])
	assert.Equal(t, schema.ProtagonismScore{BaseCode: "LRJ02", AverageScore: 7.5, Responses: 1}, scores[1])
}

func TestParseBaseDirectoryAndBank(t *testing.T) {
	bases, _ := parseBaseDirectory([]Row{
		{"BASES": "LRJ01", "LÍDER ATUAL": "Carlos Mendes", "LOCALIDADE": "Niterói", "Supervisor | Coordenador": "Ana"},
		{"BASES": "undefined"},
		{"BASES": ""},
	})
	require.Len(t, bases, 1)
	assert.Equal(t, schema.Base{Code: "LRJ01", Locality: "Niterói", LeaderName: "Carlos Mendes", CoordinatorName: "Ana"}, bases[0])

	balances, _ := parseBank([]Row{
		{"BASE": "LRJ01", "SALDO": "1.200,50", "LEADER": "Carlos"},
		{"BASE": "LRJ02", "SALDO": ""},
	})
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Accumulated.Equal(decimal.RequireFromString("1200.5")))
	assert.Equal(t, "Carlos", balances[0].Leader)
}

func TestParseLossEvents(t *testing.T) {
	events, _ := parseLossEvents([]Row{
		{"DATA": "2024-03-05", "BASE": "LRJ01", "TRACKING": "BR123", "REVERTIDO": "SIM"},
		{"DATA": "2024-03-06", "BASE": "LRJ01", "TRACKING": "BR124"},
		{"DATA": "", "BASE": "LRJ01"},
	})
	require.Len(t, events, 2)
	assert.True(t, events[0].Reversed)
	assert.False(t, events[1].Reversed)
	assert.Equal(t, "BR124", events[1].TrackingID)
}

func TestParseGoals(t *testing.T) {
	t.Run("volume", func(t *testing.T) {
		goals, warnings := parseGoals(schema.VolumePillar, []Row{
			{"BASES": "LRJ01", "PERÍODO": "Março", "TIPO_META": "1", "VALOR_META_DIA": "10,5", "VALOR_PREMIO": "500"},
			{"BASES": "LRJ01", "PERÍODO": "Março", "TIPO_META": "4", "VALOR_META_DIA": "20", "VALOR_PREMIO": "900"},
			{"BASES": "LRJ01", "PERÍODO": "Março", "TIPO_META": "2", "VALOR_META_DIA": "x", "VALOR_PREMIO": "700"},
			{"BASES": "LRJ01", "PERÍODO": "Março", "TIPO_META": "", "VALOR_META_DIA": "12", "VALOR_PREMIO": "700"},
		})
		require.Len(t, goals, 1)
		assert.Equal(t, 10.5, goals[0].DailyRate)
		assert.Equal(t, 1, goals[0].Tier)
		assert.Equal(t, "Março", goals[0].Period)
		require.Len(t, warnings, 3)
		for _, w := range warnings {
			assert.Equal(t, schema.MalformedThreshold, w.Kind)
		}
	})

	t.Run("delivery success fractions become points", func(t *testing.T) {
		goals, _ := parseGoals(schema.DeliverySuccessPillar, []Row{
			{"BASES": "LRJ01", "TIPO_META": 1.0, "META_DS": "0,97", "VALOR_PREMIO": "300"},
		})
		require.Len(t, goals, 1)
		assert.InDelta(t, 97.0, goals[0].Percent, 1e-9)
	})

	t.Run("compliance defaults to tier 1", func(t *testing.T) {
		goals, _ := parseGoals(schema.CompliancePillar, []Row{
			{"BASES": "LRJ01", "META_CAPTACAO": "14", "VALOR_PREMIO": "200"},
		})
		require.Len(t, goals, 1)
		assert.Equal(t, 1, goals[0].Tier)
		assert.Equal(t, 14, goals[0].Count)
	})

	t.Run("tierless loss goals ranked by strictness", func(t *testing.T) {
		goals, warnings := parseGoals(schema.LossPillar, []Row{
			{"BASES": "LRJ01", "META_PERDAS": "3", "VALOR_PREMIO": "100"},
			{"BASES": "LRJ01", "META_PERDAS": "1,5", "VALOR_PREMIO": "300"},
			{"BASES": "LRJ01", "META_PERDAS": "2", "VALOR_PREMIO": "200"},
			{"BASES": "LRJ01", "META_PERDAS": "4", "VALOR_PREMIO": "50"},
			{"BASES": "LRJ02", "TIPO_META": "2", "META_PERDAS": "4", "VALOR_PREMIO": "80"},
		})
		require.Len(t, warnings, 1)
		tiers := map[float64]int{}
		for _, g := range goals {
			if g.BaseCode == "LRJ01" {
				tiers[g.Percent] = g.Tier
			}
		}
		assert.Equal(t, map[float64]int{1.5: 3, 2: 2, 3: 1}, tiers)
		assert.Len(t, goals, 4)
	})

	t.Run("unknown pillar", func(t *testing.T) {
		goals, warnings := parseGoals(schema.Pillar("speed"), []Row{{"BASES": "LRJ01"}})
		assert.Nil(t, goals)
		assert.Nil(t, warnings)
	})
}
