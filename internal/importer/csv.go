// Package importer loads historical measurements from CSV exports, one
// measurement per row. Bad rows are reported and skipped; they never abort
// the rest of the batch.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

// dateFormats are tried in order when parsing the timestamp column.
var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	time.RFC3339,
}

// RowError describes a single rejected row. Line numbers are 1-based and
// count the header, matching what a spreadsheet shows.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// Summary reports the outcome of one import run.
type Summary struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Service imports CSV data through the measurement service, so every row is
// validated and authorized exactly like an interactive entry.
type Service struct {
	measurements *services.MeasurementService
}

// NewService creates a new import Service.
func NewService(measurements *services.MeasurementService) *Service {
	return &Service{measurements: measurements}
}

// Import reads CSV from r and creates one measurement per row for
// targetUserID. Header names are matched case-insensitively with spaces
// collapsed to underscores, and the short aliases from spreadsheet exports
// (date, body_fat, visceral_fat, lean_mass, waist, hip, bicep, thigh, chest)
// are accepted.
func (s *Service) Import(identity authz.Identity, targetUserID uint64, r io.Reader) (Summary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}

	summary := Summary{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}

		input, err := rowToInput(columns, record)
		if err == nil {
			_, err = s.measurements.Create(identity, targetUserID, *input)
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}

		summary.Imported++
	}

	return summary, nil
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

func rowToInput(columns map[string]int, record []string) (*services.CreateMeasurementInput, error) {
	cell := func(keys ...string) string {
		for _, key := range keys {
			if idx, ok := columns[key]; ok && idx < len(record) {
				if value := strings.TrimSpace(record[idx]); value != "" {
					return value
				}
			}
		}
		return ""
	}

	rawTimestamp := cell("timestamp", "date")
	if rawTimestamp == "" {
		return nil, fmt.Errorf("missing timestamp")
	}
	timestamp, err := parseDate(rawTimestamp)
	if err != nil {
		return nil, err
	}

	parse := func(name string, keys ...string) (*float64, error) {
		raw := cell(keys...)
		if raw == "" {
			return nil, nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", name, raw)
		}
		return &value, nil
	}

	input := &services.CreateMeasurementInput{Timestamp: &timestamp}

	fields := []struct {
		dst  **float64
		name string
		keys []string
	}{
		{&input.Weight, "weight", []string{"weight"}},
		{&input.BMI, "bmi", []string{"bmi"}},
		{&input.BodyFatPercentage, "body_fat_percentage", []string{"body_fat_percentage", "body_fat"}},
		{&input.VisceralFatIndex, "visceral_fat_index", []string{"visceral_fat_index", "visceral_fat"}},
		{&input.LeanMassPercentage, "lean_mass_percentage", []string{"lean_mass_percentage", "lean_mass"}},
		{&input.WaistCircumference, "waist_circumference", []string{"waist_circumference", "waist"}},
		{&input.HipCircumference, "hip_circumference", []string{"hip_circumference", "hip"}},
		{&input.BicepCircumference, "bicep_circumference", []string{"bicep_circumference", "bicep"}},
		{&input.ThighCircumference, "thigh_circumference", []string{"thigh_circumference", "thigh"}},
		{&input.ChestCircumference, "chest_circumference", []string{"chest_circumference", "chest"}},
	}
	for _, f := range fields {
		value, err := parse(f.name, f.keys...)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}

	return input, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date: %q", raw)
}
