package source

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/incentive/core/engine"
	"github.com/huangsam/incentive/schema"
)

// Tab names of the workbook. The operations tab is configurable.
const (
	BaseDirectoryTab    = "Lista de Bases"
	ComplianceTab       = "QLP"
	SurveyTab           = "Respostas"
	VolumeGoalsTab      = "Metas"
	DeliveryGoalsTab    = "Metas_DS"
	ComplianceGoalsTab  = "Metas_Captacao"
	LossGoalsTab        = "Metas_Perdas"
	ProtagonismGoalsTab = "Metas_Protagonismo"
	LossEventsTab       = "PNR"
	BankTab             = "Banco_Virtual"
)

// Row is one sheet row keyed by its header.
type Row = map[string]any

// Field is one logical column and the headers it may appear under.
type Field struct {
	Name     string
	Aliases  []string
	Required bool
}

// FieldMapping maps the headers of one tab to logical fields. Aliases are
// tried in order. Version is bumped whenever the tab layout changes.
type FieldMapping struct {
	Tab     string
	Version int
	Fields  []Field
}

var headerSeparators = regexp.MustCompile(`[\s_|/-]+`)

// headerKey folds case, accents and separators so "SITUAÇÃO CNH" matches "situacao_cnh".
func headerKey(h string) string {
	return strings.ToUpper(headerSeparators.ReplaceAllString(engine.NormalizeLabel(h), ""))
}

var operationsMapping = FieldMapping{Version: 1, Fields: []Field{
	{Name: "date", Aliases: []string{"Date", "DATA"}, Required: true},
	{Name: "id", Aliases: []string{"ID"}},
	{Name: "driver", Aliases: []string{"Motorista", "DRIVER"}, Required: true},
	{Name: "base", Aliases: []string{"Bases", "BASE", "HUB"}, Required: true},
	{Name: "coordinator", Aliases: []string{"Coordenador", "COORD", "SUPERVISOR"}},
	{Name: "leader", Aliases: []string{"Lider", "LEADER"}},
	{Name: "locality", Aliases: []string{"Localidade", "LOCAL", "CIDADE"}},
	{Name: "route", Aliases: []string{"AT", "COD_AT"}},
	{Name: "shipments", Aliases: []string{"Remessas", "QTD_AT", "QUANTIDADE"}, Required: true},
	{Name: "delivered", Aliases: []string{"Entregues", "ENTREGUE", "DELIVERED"}},
	{Name: "pending", Aliases: []string{"Pendentes", "PENDENTE", "PENDING"}},
}}

var directoryMapping = FieldMapping{Tab: BaseDirectoryTab, Version: 1, Fields: []Field{
	{Name: "base", Aliases: []string{"BASES", "BASE"}, Required: true},
	{Name: "coordinator", Aliases: []string{"Supervisor | Coordenador", "SUP / COORD", "COORDENADOR", "COORD", "SUPERVISOR"}},
	{Name: "leader", Aliases: []string{"LÍDER ATUAL", "LÍDER", "LEADER"}},
	{Name: "locality", Aliases: []string{"LOCALIDADE", "LOCAL", "CIDADE", "HUB"}},
}}

var complianceMapping = FieldMapping{Tab: ComplianceTab, Version: 2, Fields: []Field{
	{Name: "client", Aliases: []string{"Q CLENTE", "CLIENTE"}, Required: true},
	{Name: "base", Aliases: []string{"BASE"}, Required: true},
	{Name: "driver", Aliases: []string{"NOME"}},
	{Name: "license", Aliases: []string{"SITUAÇÃO CNH", "CNH"}, Required: true},
	{Name: "driver_status", Aliases: []string{"SITUAÇÃO MOTORISTA", "MOTORISTA"}, Required: true},
	{Name: "risk", Aliases: []string{"SITUAÇÃO GR PLACA", "GR PLACA"}, Required: true},
}}

var surveyMapping = FieldMapping{Tab: SurveyTab, Version: 1, Fields: []Field{
	{Name: "base", Aliases: []string{"BASE_OP", "BASE", "BASES", "QUAL A SUA BASE", "QUAL A BASE"}, Required: true},
	{Name: "score", Aliases: []string{"NOTA_PROTAGONISMO", "NOTA", "PONTUAÇÃO", "PONTOS"}, Required: true},
}}

var lossEventsMapping = FieldMapping{Tab: LossEventsTab, Version: 1, Fields: []Field{
	{Name: "date", Aliases: []string{"DATA", "DATE", "DATA_PNR"}, Required: true},
	{Name: "base", Aliases: []string{"BASE", "BASES", "HUB"}, Required: true},
	{Name: "driver", Aliases: []string{"MOTORISTA", "DRIVER"}},
	{Name: "tracking", Aliases: []string{"TRACKING", "RASTREIO", "PEDIDO", "ID"}},
	{Name: "reversed", Aliases: []string{"REVERTIDO", "ESTORNADO", "REVERSED"}},
}}

var bankMapping = FieldMapping{Tab: BankTab, Version: 1, Fields: []Field{
	{Name: "base", Aliases: []string{"BASE", "BASES"}, Required: true},
	{Name: "leader", Aliases: []string{"LÍDER ATUAL", "LÍDER", "LEADER"}},
	{Name: "coordinator", Aliases: []string{"Supervisor | Coordenador", "COORDENADOR", "SUPERVISOR"}},
	{Name: "accumulated", Aliases: []string{"SALDO_ACUMULADO", "SALDO", "ACUMULADO", "VALOR"}, Required: true},
}}

// goalMapping builds the mapping of a goal tab; only the threshold column differs.
func goalMapping(tab string, version int, thresholdAliases ...string) FieldMapping {
	return FieldMapping{Tab: tab, Version: version, Fields: []Field{
		{Name: "base", Aliases: []string{"BASES", "BASE"}, Required: true},
		{Name: "period", Aliases: []string{"PERÍODO", "MES"}},
		{Name: "tier", Aliases: []string{"TIPO_META", "TIER", "NIVEL", "FAIXA"}},
		{Name: "threshold", Aliases: thresholdAliases, Required: true},
		{Name: "reward", Aliases: []string{"VALOR_PREMIO", "PREMIO", "RECOMPENSA"}, Required: true},
	}}
}

var goalMappings = map[schema.Pillar]FieldMapping{
	schema.VolumePillar:          goalMapping(VolumeGoalsTab, 1, "VALOR_META_DIA", "META_DIA"),
	schema.DeliverySuccessPillar: goalMapping(DeliveryGoalsTab, 1, "META_DS", "PERCENTUAL", "VALOR_META"),
	schema.CompliancePillar:      goalMapping(ComplianceGoalsTab, 1, "META_CAPTACAO", "QUANTIDADE", "VALOR_META"),
	schema.LossPillar:            goalMapping(LossGoalsTab, 1, "META_PERDAS", "PERCENTUAL", "VALOR_META"),
	schema.ProtagonismPillar:     goalMapping(ProtagonismGoalsTab, 1, "META_NOTA", "NOTA", "VALOR_META"),
}

// Columns is a mapping resolved against the headers of one payload.
type Columns struct {
	keys map[string]string
}

// Resolve matches every field of m to a header seen in rows. Headers are
// resolved once per payload. Missing required fields come back as warnings and
// the second return value is false.
func Resolve(tab string, m FieldMapping, rows []Row) (Columns, []schema.DataWarning, bool) {
	byKey := make(map[string]string)
	for _, row := range rows {
		for h := range row {
			k := headerKey(h)
			if prev, ok := byKey[k]; !ok || h < prev {
				byKey[k] = h
			}
		}
	}

	cols := Columns{keys: make(map[string]string, len(m.Fields))}
	var missing []string
	for _, f := range m.Fields {
		for _, alias := range f.Aliases {
			if h, ok := byKey[headerKey(alias)]; ok {
				cols.keys[f.Name] = h
				break
			}
		}
		if _, ok := cols.keys[f.Name]; !ok && f.Required {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 || len(rows) == 0 {
		return cols, nil, true
	}

	sort.Strings(missing)
	warnings := make([]schema.DataWarning, 0, len(missing))
	for _, name := range missing {
		warnings = append(warnings, schema.DataWarning{
			Kind:    schema.MissingColumn,
			Message: fmt.Sprintf("tab %q (layout v%d) has no column for %q", tab, m.Version, name),
		})
	}
	return cols, warnings, false
}

// Has reports whether the field was found in the payload.
func (c Columns) Has(field string) bool {
	_, ok := c.keys[field]
	return ok
}

// Value returns the raw cell of a field, or nil when the column is absent.
func (c Columns) Value(row Row, field string) any {
	h, ok := c.keys[field]
	if !ok {
		return nil
	}
	return row[h]
}

// Text returns the trimmed cell text of a field.
func (c Columns) Text(row Row, field string) string {
	return cellText(c.Value(row, field))
}
