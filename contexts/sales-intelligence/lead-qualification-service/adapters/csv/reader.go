package csvadapter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
)

var requiredColumns = []string{"id", "name", "company", "industry", "size", "source", "created_at"}

// FileSource reads seed leads from a CSV file with a header row.
type FileSource struct {
	Path string
}

func (s FileSource) ReadSeedLeads(ctx context.Context) ([]ports.SeedLead, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()
	return ReadSeedLeads(ctx, file)
}

// ReadSeedLeads parses every data row. The first malformed row aborts the read.
func ReadSeedLeads(ctx context.Context, r io.Reader) ([]ports.SeedLead, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: seed file is missing column %q", domainerrors.ErrInvalidLead, name)
		}
	}

	records := make([]ports.SeedLead, 0)
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read seed line %d: %w", line, err)
		}
		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("seed line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string, columns map[string]int) (ports.SeedLead, error) {
	field := func(name string) string {
		index := columns[name]
		if index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}
	leadID, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return ports.SeedLead{}, fmt.Errorf("%w: id %q is not an integer", domainerrors.ErrInvalidLead, field("id"))
	}
	size, err := strconv.Atoi(field("size"))
	if err != nil {
		return ports.SeedLead{}, fmt.Errorf("%w: size %q is not an integer", domainerrors.ErrInvalidLead, field("size"))
	}
	createdAt, _ := ParseCreatedAt(field("created_at"))
	return ports.SeedLead{
		LeadID:    leadID,
		Name:      field("name"),
		Company:   field("company"),
		Industry:  field("industry"),
		Size:      size,
		Source:    field("source"),
		CreatedAt: createdAt,
	}, nil
}

// ParseCreatedAt accepts RFC3339 timestamps, including the "+00:00Z" form some
// generators emit. It reports false for anything else; callers then use the
// ingestion time.
func ParseCreatedAt(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed.UTC(), true
	}
	if trimmed, ok := strings.CutSuffix(raw, "Z"); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
			return parsed.UTC(), true
		}
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05.999999999", raw); err == nil {
		return parsed.UTC(), true
	}
	return time.Time{}, false
}
