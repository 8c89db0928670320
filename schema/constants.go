package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Pillar identifies one of the five independent incentive dimensions.
	Pillar string

	// ResultStatus tags whether a pillar or gate carries a computed value.
	ResultStatus string

	// ComplianceStatus represents one of the three per-driver checks.
	ComplianceStatus string

	// DeliveryBand classifies a delivery-success rate for display.
	DeliveryBand string

	// Trend represents the direction of a period-over-period change.
	Trend string

	// Status represents the presence of a base across two periods.
	Status string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// WarningKind classifies an in-band data quality warning.
	WarningKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All pillars, in report order.
const (
	VolumePillar          Pillar = "volume"
	DeliverySuccessPillar Pillar = "delivery_success"
	CompliancePillar      Pillar = "compliance"
	LossPillar            Pillar = "loss"
	ProtagonismPillar     Pillar = "protagonism"
)

// Result statuses. NotApplicable is never the same as a zero value.
const (
	ValueStatus         ResultStatus = "value"
	NotApplicableStatus ResultStatus = "not_applicable"
)

// Compliance statuses.
const (
	Compliant    ComplianceStatus = "compliant"
	NonCompliant ComplianceStatus = "non_compliant"
	Pending      ComplianceStatus = "pending"
)

// Delivery bands.
const (
	BandMet   DeliveryBand = "met"
	BandNear  DeliveryBand = "near"
	BandBelow DeliveryBand = "below"
)

// Trends.
const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// All status supported.
const (
	NewStatus      Status = "new"
	ActiveStatus   Status = "active"
	InactiveStatus Status = "inactive"
	UnknownStatus  Status = "unknown"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Warning kinds.
const (
	MalformedThreshold    WarningKind = "malformed_threshold"
	MissingGoalDefinition WarningKind = "missing_goal_definition"
	UnnormalizedJoinMiss  WarningKind = "unnormalized_join_miss"
	MissingColumn         WarningKind = "missing_column"
)

// Reasons attached to not-applicable results.
const (
	ReasonGateClosed = "gate_closed"
	ReasonCrossMonth = "cross_month"
	ReasonNoGoal     = "no_goal"
)

// MaxTier is the highest reward tier a goal can declare.
const MaxTier = 3

// AllPillars lists every pillar in report order.
var AllPillars = []Pillar{VolumePillar, DeliverySuccessPillar, CompliancePillar, LossPillar, ProtagonismPillar}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidPillars lists all valid pillars.
var ValidPillars = map[Pillar]struct{}{
	VolumePillar:          {},
	DeliverySuccessPillar: {},
	CompliancePillar:      {},
	LossPillar:            {},
	ProtagonismPillar:     {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// HigherIsBetter reports whether larger actuals satisfy higher tiers.
// Only the loss pillar is inverted.
func (p Pillar) HigherIsBetter() bool {
	return p != LossPillar
}

// IsPercent reports whether the pillar's thresholds are percentages.
func (p Pillar) IsPercent() bool {
	return p == DeliverySuccessPillar || p == LossPillar
}

// Label returns a short human label for tables.
func (p Pillar) Label() string {
	switch p {
	case VolumePillar:
		return "Volume"
	case DeliverySuccessPillar:
		return "DS"
	case CompliancePillar:
		return "Compliance"
	case LossPillar:
		return "Loss"
	case ProtagonismPillar:
		return "Protagonism"
	default:
		return string(p)
	}
}
