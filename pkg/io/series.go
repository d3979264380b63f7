package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/porenet/pkg/sweep"
)

// seriesHeader is the CSV column order written by WriteSeriesCSV.
var seriesHeader = []string{
	"variant", "step", "level", "step_size",
	"air_filled", "present", "total", "removed", "channels",
	"fraction", "total_fraction",
}

// WriteSeriesJSON encodes series as an indented JSON array.
func WriteSeriesJSON(series []*sweep.Series, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(series); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSeriesJSON decodes a JSON array written by WriteSeriesJSON.
func ReadSeriesJSON(r io.Reader) ([]*sweep.Series, error) {
	var series []*sweep.Series
	if err := json.NewDecoder(r).Decode(&series); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return series, nil
}

// WriteSeriesCSV writes one row per variant and step, preceded by a header.
func WriteSeriesCSV(series []*sweep.Series, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seriesHeader); err != nil {
		return err
	}
	for _, s := range series {
		label := s.Variant.Label()
		for _, r := range s.Records {
			row := []string{
				label,
				strconv.Itoa(r.Step),
				formatFloat(r.Level),
				formatFloat(r.StepSize),
				strconv.Itoa(r.AirFilled),
				strconv.Itoa(r.Present),
				strconv.Itoa(r.Total),
				strconv.Itoa(r.Removed),
				strconv.Itoa(r.Channels),
				formatFloat(r.Fraction),
				formatFloat(r.TotalFraction),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("variant %s step %d: %w", label, r.Step, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSeriesJSON writes series to a JSON file at path.
func ExportSeriesJSON(series []*sweep.Series, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteSeriesJSON(series, w) })
}

// ExportSeriesCSV writes series to a CSV file at path.
func ExportSeriesCSV(series []*sweep.Series, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteSeriesCSV(series, w) })
}

// ImportSeriesJSON reads series from a JSON file at path.
func ImportSeriesJSON(path string) ([]*sweep.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSeriesJSON(f)
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
