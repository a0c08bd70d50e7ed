package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/motion-data/dynamics.report/internal/db"
	"github.com/motion-data/dynamics.report/internal/dynamics"
	"github.com/motion-data/dynamics.report/internal/httputil"
	"github.com/motion-data/dynamics.report/internal/trajio"
	"github.com/motion-data/dynamics.report/internal/units"
)

func (s *Server) handleTrajectories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTrajectories(w, r)
	case http.MethodPost:
		s.createTrajectory(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// handleTrajectory dispatches /trajectories/{id}[/summary|/chart].
func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/trajectories/"), "/", 2)
	id := parts[0]
	if id == "" {
		httputil.NotFound(w, "missing trajectory id")
		return
	}
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		s.getTrajectory(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		s.deleteTrajectory(w, id)
	case sub == "summary" && r.Method == http.MethodGet:
		s.getSummary(w, r, id)
	case sub == "chart" && r.Method == http.MethodGet:
		s.getChart(w, r, id)
	case sub == "" || sub == "summary" || sub == "chart":
		httputil.MethodNotAllowed(w)
	default:
		httputil.NotFound(w, fmt.Sprintf("unknown trajectory resource %q", sub))
	}
}

type createRequest struct {
	Name    string              `json:"name"`
	Samples dynamics.Trajectory `json:"samples"`
}

type createResponse struct {
	ID          string `json:"id"`
	SampleCount int    `json:"sample_count"`
}

// createTrajectory accepts a raw trajectory as JSON, or as CSV when the
// request body is text/csv, validates and computes its dynamics, and stores
// the enriched result. Engine validation failures are the caller's to fix,
// so they come back as 400 with the engine's message.
func (s *Server) createTrajectory(w http.ResponseWriter, r *http.Request) {
	var name, source string
	var traj dynamics.Trajectory

	contentType := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/csv" {
		var err error
		traj, err = trajio.ReadCSV(r.Body)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("failed to parse CSV body: %v", err))
			return
		}
		name = r.URL.Query().Get("name")
		source = "csv-upload"
	} else {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("failed to parse JSON body: %v", err))
			return
		}
		name = req.Name
		traj = req.Samples
		source = "json-upload"
	}
	if name == "" {
		name = "unnamed"
	}

	enriched, err := dynamics.Compute(traj)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	id, err := s.db.InsertTrajectory(name, source, enriched)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to store trajectory: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, createResponse{ID: id, SampleCount: len(enriched)})
}

func (s *Server) listTrajectories(w http.ResponseWriter, _ *http.Request) {
	recs, err := s.db.ListTrajectories()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list trajectories: %v", err))
		return
	}
	if recs == nil {
		recs = []db.TrajectoryRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

type trajectoryResponse struct {
	Trajectory *db.TrajectoryRecord        `json:"trajectory"`
	Units      string                      `json:"units"`
	Samples    dynamics.EnrichedTrajectory `json:"samples"`
}

// getTrajectory returns the enriched table for one trajectory as JSON, or
// as CSV with `format=csv`. Speed and acceleration columns are converted to
// the requested units; positions and timestamps stay in engine units.
func (s *Server) getTrajectory(w http.ResponseWriter, r *http.Request, id string) {
	targetUnits, ok := s.requestUnits(w, r)
	if !ok {
		return
	}

	rec, err := s.db.GetTrajectory(id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	enriched, err := s.db.GetEnriched(id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	enriched = convertUnits(enriched, targetUnits)

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", rec.ID))
		if err := trajio.WriteEnrichedCSV(w, enriched); err != nil {
			log.Printf("failed to write CSV response: %v", err)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, trajectoryResponse{
		Trajectory: rec,
		Units:      targetUnits,
		Samples:    enriched,
	})
}

type summaryResponse struct {
	Trajectory *db.TrajectoryRecord       `json:"trajectory"`
	Units      string                     `json:"units"`
	Summary    dynamics.TrajectorySummary `json:"summary"`
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request, id string) {
	targetUnits, ok := s.requestUnits(w, r)
	if !ok {
		return
	}

	rec, err := s.db.GetTrajectory(id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	enriched, err := s.db.GetEnriched(id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	summary := dynamics.Summarize(enriched)
	summary.MeanSpeed = units.ConvertSpeed(summary.MeanSpeed, targetUnits)
	summary.MaxSpeed = units.ConvertSpeed(summary.MaxSpeed, targetUnits)
	summary.MeanAccel = units.ConvertAccel(summary.MeanAccel, targetUnits)
	summary.MaxAccel = units.ConvertAccel(summary.MaxAccel, targetUnits)

	httputil.WriteJSON(w, http.StatusOK, summaryResponse{
		Trajectory: rec,
		Units:      targetUnits,
		Summary:    summary,
	})
}

func (s *Server) deleteTrajectory(w http.ResponseWriter, id string) {
	if err := s.db.DeleteTrajectory(id); err != nil {
		s.storeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// requestUnits resolves the effective output units for a request, writing a
// 400 response and returning ok=false on an unknown unit.
func (s *Server) requestUnits(w http.ResponseWriter, r *http.Request) (string, bool) {
	targetUnits := r.URL.Query().Get("units")
	if targetUnits == "" {
		targetUnits = s.units
	}
	if !units.IsValid(targetUnits) {
		httputil.BadRequest(w, fmt.Sprintf("invalid units %q, valid units are: %s", targetUnits, units.GetValidUnitsString()))
		return "", false
	}
	return targetUnits, true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}

// convertUnits scales the velocity and acceleration columns in place on a
// fresh copy. NaN markers survive multiplication unchanged.
func convertUnits(et dynamics.EnrichedTrajectory, targetUnits string) dynamics.EnrichedTrajectory {
	factor := units.SpeedFactor(targetUnits)
	if factor == 1 {
		return et
	}
	out := make(dynamics.EnrichedTrajectory, len(et))
	copy(out, et)
	for i := range out {
		out[i].Vx *= factor
		out[i].Vy *= factor
		out[i].Speed *= factor
		out[i].Ax *= factor
		out[i].Ay *= factor
		out[i].Accel *= factor
	}
	return out
}
