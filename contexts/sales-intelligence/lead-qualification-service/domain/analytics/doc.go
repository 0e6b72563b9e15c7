// Package analytics aggregates leads and interaction events into reports.
//
// Every function is pure and read-only. Empty input yields a zeroed report,
// and events whose payload cannot be read are skipped one at a time.
package analytics
