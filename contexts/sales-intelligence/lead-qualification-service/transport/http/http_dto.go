package http

import "encoding/json"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RootResponse struct {
	Message string `json:"message"`
}

type ListLeadsRequest struct {
	Industry string
	// Size is the inclusive minimum employee count; 0 means unfiltered.
	Size int
}

type LeadResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Industry  string `json:"industry"`
	Size      int    `json:"size"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	Quality   string `json:"quality"`
	Summary   string `json:"summary"`
}

type EventRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	// Timestamp is read only when it is a JSON string.
	Timestamp json.RawMessage `json:"timestamp,omitempty" swaggertype:"string"`
}

type EventResponse struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	Data      json.RawMessage `json:"data" swaggertype:"object"`
	Timestamp string          `json:"timestamp"`
}

type ReportWindowRequest struct {
	Days  int
	Limit int
}

type ActionCountResponse struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type IndustryCountResponse struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

type FilterUsageResponse struct {
	Industries  []IndustryCountResponse `json:"industries"`
	MeanSize    *int                    `json:"mean_size"`
	SizeSamples int                     `json:"size_samples"`
}

type HourCountResponse struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type DayCountResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type OverallStatsResponse struct {
	TotalEvents int     `json:"total_events"`
	ActiveDays  int     `json:"active_days"`
	MeanPerDay  float64 `json:"mean_per_day"`
}

type UsageReportResponse struct {
	GeneratedAt string                `json:"generated_at"`
	WindowDays  int                   `json:"window_days"`
	Actions     []ActionCountResponse `json:"actions"`
	FilterUsage FilterUsageResponse   `json:"filter_usage"`
	Hourly      []HourCountResponse   `json:"hourly"`
	Daily       []DayCountResponse    `json:"daily"`
	Overall     OverallStatsResponse  `json:"overall"`
}

type QualityShareResponse struct {
	Quality string  `json:"quality"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type IndustryBreakdownResponse struct {
	Industry  string                 `json:"industry"`
	Total     int                    `json:"total"`
	Qualities []QualityShareResponse `json:"qualities"`
}

type SizeBandResponse struct {
	Band     string `json:"band"`
	Label    string `json:"label"`
	MinSize  int    `json:"min_size"`
	MaxSize  *int   `json:"max_size"`
	Count    int    `json:"count"`
	MeanSize int    `json:"mean_size"`
}

type SourceEffectivenessResponse struct {
	Source      string  `json:"source"`
	Total       int     `json:"total"`
	High        int     `json:"high"`
	HighPercent float64 `json:"high_percent"`
}

type LeadReportResponse struct {
	GeneratedAt string                        `json:"generated_at"`
	TotalLeads  int                           `json:"total_leads"`
	Quality     []QualityShareResponse        `json:"quality"`
	Industries  []IndustryBreakdownResponse   `json:"industries"`
	SizeBands   []SizeBandResponse            `json:"size_bands"`
	Sources     []SourceEffectivenessResponse `json:"sources"`
}

type TopIndustriesResponse struct {
	GeneratedAt string                  `json:"generated_at"`
	WindowDays  int                     `json:"window_days"`
	Limit       int                     `json:"limit"`
	Items       []IndustryCountResponse `json:"items"`
}

type ViewShareResponse struct {
	View    string  `json:"view"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type ViewPreferenceResponse struct {
	TotalToggles int                 `json:"total_toggles"`
	Views        []ViewShareResponse `json:"views"`
}

type DailyActionResponse struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type SourceHighQualityResponse struct {
	Source           string `json:"source"`
	HighQualityCount int    `json:"high_quality_count"`
	AvgCompanySize   int    `json:"avg_company_size"`
}

type CustomQueriesResponse struct {
	EventsPerDayByAction []DailyActionResponse       `json:"events_per_day_by_action"`
	HighQualityBySource  []SourceHighQualityResponse `json:"high_quality_by_source"`
	RecentFilterEvents   []EventResponse             `json:"recent_filter_events"`
}
