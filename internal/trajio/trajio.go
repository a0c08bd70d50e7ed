// Package trajio reads and writes trajectory tables as CSV. The raw format
// is a `t,x,y` header followed by one row per sample; the enriched format
// appends the computed columns, with undefined values written as empty
// cells so the table round-trips through spreadsheet tools.
package trajio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/motion-data/dynamics.report/internal/dynamics"
)

// rawHeader is the required header of an input trajectory CSV.
var rawHeader = []string{"t", "x", "y"}

// enrichedHeader matches the JSON field names of dynamics.EnrichedSample.
var enrichedHeader = []string{
	"t", "x", "y",
	"vx", "vy", "speed",
	"ax", "ay", "accel",
	"curv", "curv_radius",
	"disp_x", "disp_y", "disp",
}

// ReadCSV parses a raw trajectory table. It checks the header and wraps
// parse failures with the 1-based row number; it does not validate the
// trajectory itself (that is the engine's job).
func ReadCSV(r io.Reader) (dynamics.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(rawHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row, want %q", strings.Join(rawHeader, ","))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, want := range rawHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("unexpected header %q, want %q", strings.Join(header, ","), strings.Join(rawHeader, ","))
		}
	}

	var traj dynamics.Trajectory
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		var s dynamics.Sample
		if s.T, err = strconv.ParseFloat(strings.TrimSpace(record[0]), 64); err != nil {
			return nil, fmt.Errorf("row %d: failed to parse t: %w", row, err)
		}
		if s.X, err = strconv.ParseFloat(strings.TrimSpace(record[1]), 64); err != nil {
			return nil, fmt.Errorf("row %d: failed to parse x: %w", row, err)
		}
		if s.Y, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64); err != nil {
			return nil, fmt.Errorf("row %d: failed to parse y: %w", row, err)
		}
		traj = append(traj, s)
	}
	return traj, nil
}

// WriteCSV writes a raw trajectory table.
func WriteCSV(w io.Writer, traj dynamics.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rawHeader); err != nil {
		return err
	}
	for _, s := range traj {
		record := []string{formatValue(s.T), formatValue(s.X), formatValue(s.Y)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEnrichedCSV writes the full enriched table. Missing-value markers
// (NaN, and the infinite curvature radius) become empty cells.
func WriteEnrichedCSV(w io.Writer, et dynamics.EnrichedTrajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(enrichedHeader); err != nil {
		return err
	}
	for _, row := range et {
		record := []string{
			formatValue(row.T), formatValue(row.X), formatValue(row.Y),
			formatDerived(row.Vx), formatDerived(row.Vy), formatDerived(row.Speed),
			formatDerived(row.Ax), formatDerived(row.Ay), formatDerived(row.Accel),
			formatDerived(row.Curvature), formatDerived(row.CurvatureRadius),
			formatDerived(row.DispX), formatDerived(row.DispY), formatDerived(row.Disp),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatDerived(v float64) string {
	if !dynamics.Finite(v) {
		return ""
	}
	return formatValue(v)
}
