package schema

// ComparisonDetail holds the previous and current volume of one base.
type ComparisonDetail struct {
	Code           string `json:"code"`
	Locality       string `json:"locality"`
	Leader         string `json:"leader"`
	Coordinator    string `json:"coordinator"`
	PreviousRoutes int    `json:"previous_routes"` // unique routes in the previous window
	CurrentRoutes  int    `json:"current_routes"`  // unique routes in the current window
	Delta          int    `json:"delta"`           // CurrentRoutes - PreviousRoutes
	Trend          Trend  `json:"trend"`           // up when current >= previous
	AverageLoad    int    `json:"average_load"`    // current window
	PeakLoad       int    `json:"peak_load"`       // current window
	Status         Status `json:"status"`
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	PreviousTotal   int `json:"previous_total"`
	CurrentTotal    int `json:"current_total"`
	NetDelta        int `json:"net_delta"`
	MeanAverageLoad int `json:"mean_average_load"` // rounded mean of the per-base average loads
	MaxPeakLoad     int `json:"max_peak_load"`

	TotalNewBases      int `json:"total_new_bases"`
	TotalInactiveBases int `json:"total_inactive_bases"`
	TotalActiveBases   int `json:"total_active_bases"`
}

// ComparisonResult holds the comparison details and summary.
type ComparisonResult struct {
	Current  Window             `json:"current"`
	Previous Window             `json:"previous"`
	Details  []ComparisonDetail `json:"details"`
	Summary  ComparisonSummary  `json:"summary"`
}
