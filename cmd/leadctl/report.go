package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	leadqualification "leadqualifier/contexts/sales-intelligence/lead-qualification-service"
	consoleadapter "leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/console"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/queries"
)

const (
	sectionUsage      = "usage"
	sectionLeads      = "leads"
	sectionIndustries = "industries"
	sectionViews      = "views"
	sectionQueries    = "queries"
	sectionAll        = "all"
)

var reportSections = []string{
	sectionUsage,
	sectionLeads,
	sectionIndustries,
	sectionViews,
	sectionQueries,
	sectionAll,
}

type reporter struct {
	module  leadqualification.Module
	printer consoleadapter.Printer
}

func (r reporter) print(ctx context.Context, section string, days int, limit int) error {
	if section == sectionAll {
		for _, name := range reportSections[:len(reportSections)-1] {
			if err := r.print(ctx, name, days, limit); err != nil {
				return err
			}
			fmt.Fprintln(r.printer.Out)
		}
		return nil
	}

	handler := r.module.Handler
	switch section {
	case sectionUsage:
		report, err := handler.UsageReport.Execute(ctx, queries.UsageReportQuery{WindowDays: days})
		if err != nil {
			return err
		}
		return r.printer.PrintUsage(report)
	case sectionLeads:
		report, err := handler.LeadReport.Execute(ctx)
		if err != nil {
			return err
		}
		return r.printer.PrintLeads(report)
	case sectionIndustries:
		top, err := handler.TopIndustries.Execute(ctx, queries.TopIndustriesQuery{Days: days, Limit: limit})
		if err != nil {
			return err
		}
		return r.printer.PrintTopIndustries(top)
	case sectionViews:
		report, err := handler.ViewPreference.Execute(ctx)
		if err != nil {
			return err
		}
		return r.printer.PrintViews(report)
	case sectionQueries:
		report, err := handler.CustomQueries.Execute(ctx)
		if err != nil {
			return err
		}
		return r.printer.PrintCustomQueries(report)
	default:
		return fmt.Errorf("unknown report section %q (want one of %s)", section, strings.Join(reportSections, ", "))
	}
}

func (r reporter) printLead(ctx context.Context, rawID string) error {
	leadID, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return fmt.Errorf("lead id must be an integer: %q", rawID)
	}
	lead, err := r.module.Handler.GetLead.Execute(ctx, queries.GetLeadQuery{LeadID: leadID})
	if err != nil {
		return err
	}
	return r.printer.PrintLead(lead)
}
