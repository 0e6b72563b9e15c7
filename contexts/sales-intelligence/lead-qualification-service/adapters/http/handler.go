package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "leadqualifier/contexts/sales-intelligence/lead-qualification-service/application"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/commands"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/analytics"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	httptransport "leadqualifier/contexts/sales-intelligence/lead-qualification-service/transport/http"
)

const RootMessage = "Lead Qualification API is running"

type Handler struct {
	ListLeads      queries.ListLeadsUseCase
	GetLead        queries.GetLeadUseCase
	RecordEvent    commands.RecordEventUseCase
	UsageReport    queries.UsageReportUseCase
	LeadReport     queries.LeadReportUseCase
	TopIndustries  queries.TopIndustriesUseCase
	ViewPreference queries.ViewPreferenceUseCase
	CustomQueries  queries.CustomQueriesUseCase
	Logger         *slog.Logger
}

// RootHandler godoc
// @Summary Service status
// @Description Returns a fixed message while the API is up.
// @Tags lead-qualification
// @Produce json
// @Success 200 {object} httptransport.RootResponse
// @Router / [get]
func (h Handler) RootHandler(context.Context) httptransport.RootResponse {
	return httptransport.RootResponse{Message: RootMessage}
}

// ListLeadsHandler godoc
// @Summary List leads
// @Description Returns leads filtered by industry substring and minimum size. Every successful call records one filter event.
// @Tags lead-qualification
// @Produce json
// @Param industry query string false "Case-insensitive industry substring"
// @Param size query int false "Minimum company size (inclusive)"
// @Success 200 {array} httptransport.LeadResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/leads [get]
func (h Handler) ListLeadsHandler(ctx context.Context, req httptransport.ListLeadsRequest) ([]httptransport.LeadResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	items, err := h.ListLeads.Execute(ctx, queries.ListLeadsQuery{
		Industry: req.Industry,
		MinSize:  req.Size,
	})
	if err != nil {
		return nil, err
	}

	if _, err := h.RecordEvent.Execute(ctx, commands.RecordEventCommand{
		Action: entities.ActionFilter,
		Data:   filterEventData(req),
	}); err != nil {
		logger.Error("filter event append failed",
			"event", "http_list_leads_filter_event_failed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return nil, err
	}
	return mapLeads(items), nil
}

// filterEventData holds only the filter fields the caller supplied, or null.
func filterEventData(req httptransport.ListLeadsRequest) entities.Value {
	fields := make(map[string]entities.Value, 2)
	if industry := strings.TrimSpace(req.Industry); industry != "" {
		fields["industry"] = entities.String(industry)
	}
	if req.Size > 0 {
		fields["size"] = entities.Number(float64(req.Size))
	}
	if len(fields) == 0 {
		return entities.Null()
	}
	return entities.Object(fields)
}

// GetLeadHandler godoc
// @Summary Get lead
// @Description Returns one lead by id.
// @Tags lead-qualification
// @Produce json
// @Param lead_id path int true "Lead id"
// @Success 200 {object} httptransport.LeadResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/leads/{lead_id} [get]
func (h Handler) GetLeadHandler(ctx context.Context, rawLeadID string) (httptransport.LeadResponse, error) {
	leadID, err := strconv.ParseInt(strings.TrimSpace(rawLeadID), 10, 64)
	if err != nil {
		return httptransport.LeadResponse{}, domainerrors.ErrInvalidLeadID
	}
	lead, err := h.GetLead.Execute(ctx, queries.GetLeadQuery{LeadID: leadID})
	if err != nil {
		return httptransport.LeadResponse{}, err
	}
	return mapLead(lead), nil
}

// RecordEventHandler godoc
// @Summary Record interaction event
// @Description Appends one interaction event. Missing or unparsable timestamps are replaced with server time.
// @Tags lead-qualification
// @Accept json
// @Produce json
// @Param request body httptransport.EventRequest true "Event payload"
// @Success 200 {object} httptransport.EventResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/events [post]
func (h Handler) RecordEventHandler(ctx context.Context, req httptransport.EventRequest) (httptransport.EventResponse, error) {
	data, err := entities.ParseValue(req.Data)
	if err != nil {
		return httptransport.EventResponse{}, fmt.Errorf("%w: data is not valid JSON", domainerrors.ErrInvalidEvent)
	}
	event, err := h.RecordEvent.Execute(ctx, commands.RecordEventCommand{
		Action:    req.Action,
		Data:      data,
		Timestamp: rawTimestamp(req.Timestamp),
	})
	if err != nil {
		return httptransport.EventResponse{}, err
	}
	return mapEvent(event), nil
}

func rawTimestamp(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// UsageReportHandler godoc
// @Summary Usage analytics
// @Description Action frequency, filter usage, hourly and daily activity, and overall statistics.
// @Tags lead-analytics
// @Produce json
// @Param days query int false "Trailing window for daily activity (default 7)"
// @Success 200 {object} httptransport.UsageReportResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/analytics/usage [get]
func (h Handler) UsageReportHandler(ctx context.Context, req httptransport.ReportWindowRequest) (httptransport.UsageReportResponse, error) {
	result, err := h.UsageReport.Execute(ctx, queries.UsageReportQuery{WindowDays: req.Days})
	if err != nil {
		return httptransport.UsageReportResponse{}, err
	}
	return mapUsageReport(result), nil
}

// LeadReportHandler godoc
// @Summary Lead analytics
// @Description Quality distribution, industry by quality breakdown, size bands and source effectiveness.
// @Tags lead-analytics
// @Produce json
// @Success 200 {object} httptransport.LeadReportResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/analytics/leads [get]
func (h Handler) LeadReportHandler(ctx context.Context) (httptransport.LeadReportResponse, error) {
	result, err := h.LeadReport.Execute(ctx)
	if err != nil {
		return httptransport.LeadReportResponse{}, err
	}
	return mapLeadReport(result), nil
}

// TopIndustriesHandler godoc
// @Summary Top filtered industries
// @Description Industries most often filtered on within the trailing window.
// @Tags lead-analytics
// @Produce json
// @Param days query int false "Trailing window in days (default 7)"
// @Param limit query int false "Number of industries (default 3)"
// @Success 200 {object} httptransport.TopIndustriesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/analytics/industries/top [get]
func (h Handler) TopIndustriesHandler(ctx context.Context, req httptransport.ReportWindowRequest) (httptransport.TopIndustriesResponse, error) {
	result, err := h.TopIndustries.Execute(ctx, queries.TopIndustriesQuery{Days: req.Days, Limit: req.Limit})
	if err != nil {
		return httptransport.TopIndustriesResponse{}, err
	}
	return httptransport.TopIndustriesResponse{
		GeneratedAt: formatTime(result.GeneratedAt),
		WindowDays:  result.WindowDays,
		Limit:       result.Limit,
		Items:       mapIndustryCounts(result.Industries),
	}, nil
}

// ViewPreferenceHandler godoc
// @Summary Chart view preference
// @Description Share of toggle_view events per selected view.
// @Tags lead-analytics
// @Produce json
// @Success 200 {object} httptransport.ViewPreferenceResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/analytics/views [get]
func (h Handler) ViewPreferenceHandler(ctx context.Context) (httptransport.ViewPreferenceResponse, error) {
	result, err := h.ViewPreference.Execute(ctx)
	if err != nil {
		return httptransport.ViewPreferenceResponse{}, err
	}
	views := make([]httptransport.ViewShareResponse, 0, len(result.Views))
	for _, view := range result.Views {
		views = append(views, httptransport.ViewShareResponse{
			View:    view.View,
			Count:   view.Count,
			Percent: view.Percent,
		})
	}
	return httptransport.ViewPreferenceResponse{TotalToggles: result.TotalToggles, Views: views}, nil
}

// CustomQueriesHandler godoc
// @Summary Named analytics queries
// @Description Events per day by action, high-quality leads by source, and the latest filter events.
// @Tags lead-analytics
// @Produce json
// @Success 200 {object} httptransport.CustomQueriesResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/analytics/queries [get]
func (h Handler) CustomQueriesHandler(ctx context.Context) (httptransport.CustomQueriesResponse, error) {
	result, err := h.CustomQueries.Execute(ctx)
	if err != nil {
		return httptransport.CustomQueriesResponse{}, err
	}
	resp := httptransport.CustomQueriesResponse{
		EventsPerDayByAction: make([]httptransport.DailyActionResponse, 0, len(result.DailyActions)),
		HighQualityBySource:  make([]httptransport.SourceHighQualityResponse, 0, len(result.HighQualityBySource)),
		RecentFilterEvents:   make([]httptransport.EventResponse, 0, len(result.RecentFilters)),
	}
	for _, row := range result.DailyActions {
		resp.EventsPerDayByAction = append(resp.EventsPerDayByAction, httptransport.DailyActionResponse{
			Date:   row.Date,
			Action: row.Action,
			Count:  row.Count,
		})
	}
	for _, row := range result.HighQualityBySource {
		resp.HighQualityBySource = append(resp.HighQualityBySource, httptransport.SourceHighQualityResponse{
			Source:           row.Source,
			HighQualityCount: row.HighQualityCount,
			AvgCompanySize:   row.MeanSize,
		})
	}
	for _, event := range result.RecentFilters {
		resp.RecentFilterEvents = append(resp.RecentFilterEvents, mapEvent(event))
	}
	return resp, nil
}

func mapLeads(items []entities.Lead) []httptransport.LeadResponse {
	out := make([]httptransport.LeadResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapLead(item))
	}
	return out
}

func mapLead(lead entities.Lead) httptransport.LeadResponse {
	return httptransport.LeadResponse{
		ID:        strconv.FormatInt(lead.LeadID, 10),
		Name:      lead.Name,
		Company:   lead.Company,
		Industry:  lead.Industry,
		Size:      lead.Size,
		Source:    lead.Source,
		CreatedAt: formatTime(lead.CreatedAt),
		Quality:   string(lead.Quality),
		Summary:   lead.Summary,
	}
}

func mapEvent(event entities.Event) httptransport.EventResponse {
	data, err := event.Data.MarshalJSON()
	if err != nil {
		data = []byte("null")
	}
	return httptransport.EventResponse{
		ID:        event.EventID,
		Action:    event.Action,
		Data:      data,
		Timestamp: formatTime(event.Timestamp),
	}
}

func mapIndustryCounts(items []analytics.IndustryCount) []httptransport.IndustryCountResponse {
	out := make([]httptransport.IndustryCountResponse, 0, len(items))
	for _, item := range items {
		out = append(out, httptransport.IndustryCountResponse{Industry: item.Industry, Count: item.Count})
	}
	return out
}

func mapQualityShares(items []analytics.QualityShare) []httptransport.QualityShareResponse {
	out := make([]httptransport.QualityShareResponse, 0, len(items))
	for _, item := range items {
		out = append(out, httptransport.QualityShareResponse{
			Quality: string(item.Quality),
			Count:   item.Count,
			Percent: item.Percent,
		})
	}
	return out
}

func mapUsageReport(result queries.UsageReport) httptransport.UsageReportResponse {
	r := result.Report
	resp := httptransport.UsageReportResponse{
		GeneratedAt: formatTime(result.GeneratedAt),
		WindowDays:  r.WindowDays,
		Actions:     make([]httptransport.ActionCountResponse, 0, len(r.Actions)),
		FilterUsage: httptransport.FilterUsageResponse{
			Industries:  mapIndustryCounts(r.FilterUsage.Industries),
			MeanSize:    r.FilterUsage.MeanSize,
			SizeSamples: r.FilterUsage.SizeSamples,
		},
		Hourly: make([]httptransport.HourCountResponse, 0, len(r.Hourly)),
		Daily:  make([]httptransport.DayCountResponse, 0, len(r.Daily)),
		Overall: httptransport.OverallStatsResponse{
			TotalEvents: r.Overall.TotalEvents,
			ActiveDays:  r.Overall.ActiveDays,
			MeanPerDay:  r.Overall.MeanPerDay,
		},
	}
	for _, item := range r.Actions {
		resp.Actions = append(resp.Actions, httptransport.ActionCountResponse{Action: item.Action, Count: item.Count})
	}
	for _, item := range r.Hourly {
		resp.Hourly = append(resp.Hourly, httptransport.HourCountResponse{Hour: item.Hour, Count: item.Count})
	}
	for _, item := range r.Daily {
		resp.Daily = append(resp.Daily, httptransport.DayCountResponse{Date: item.Date, Count: item.Count})
	}
	return resp
}

func mapLeadReport(result queries.LeadReport) httptransport.LeadReportResponse {
	r := result.Report
	resp := httptransport.LeadReportResponse{
		GeneratedAt: formatTime(result.GeneratedAt),
		TotalLeads:  r.Quality.Total,
		Quality:     mapQualityShares(r.Quality.Tiers),
		Industries:  make([]httptransport.IndustryBreakdownResponse, 0, len(r.Industries)),
		SizeBands:   make([]httptransport.SizeBandResponse, 0, len(r.SizeBands)),
		Sources:     make([]httptransport.SourceEffectivenessResponse, 0, len(r.Sources)),
	}
	for _, industry := range r.Industries {
		resp.Industries = append(resp.Industries, httptransport.IndustryBreakdownResponse{
			Industry:  industry.Industry,
			Total:     industry.Total,
			Qualities: mapQualityShares(industry.Qualities),
		})
	}
	for _, band := range r.SizeBands {
		item := httptransport.SizeBandResponse{
			Band:     band.Name,
			Label:    band.Label,
			MinSize:  band.MinSize,
			Count:    band.Count,
			MeanSize: band.MeanSize,
		}
		if band.MaxSize > 0 {
			maxSize := band.MaxSize
			item.MaxSize = &maxSize
		}
		resp.SizeBands = append(resp.SizeBands, item)
	}
	for _, source := range r.Sources {
		resp.Sources = append(resp.Sources, httptransport.SourceEffectivenessResponse{
			Source:      source.Source,
			Total:       source.Total,
			High:        source.High,
			HighPercent: source.HighPercent,
		})
	}
	return resp
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}
