package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motion-data/dynamics.report/internal/db"
	"github.com/motion-data/dynamics.report/internal/units"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ts := httptest.NewServer(NewServer(database, units.MPS).ServeMux())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/trajectories", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func createFixture(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts, `{"name":"walk","samples":[
		{"t":0,"x":0,"y":0},
		{"t":1,"x":1,"y":0},
		{"t":2,"x":2,"y":0},
		{"t":3,"x":3,"y":0}
	]}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID          string `json:"id"`
		SampleCount int    `json:"sample_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, 4, created.SampleCount)
	return created.ID
}

func TestCreateAndGetTrajectory(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Trajectory struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"trajectory"`
		Units   string `json:"units"`
		Samples []struct {
			T     float64  `json:"t"`
			Vx    *float64 `json:"vx"`
			Speed *float64 `json:"speed"`
			DispX *float64 `json:"disp_x"`
		} `json:"samples"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, id, body.Trajectory.ID)
	assert.Equal(t, "walk", body.Trajectory.Name)
	assert.Equal(t, units.MPS, body.Units)
	require.Len(t, body.Samples, 4)

	// Uniform motion at 1 m/s; row 0 has no displacement.
	require.NotNil(t, body.Samples[1].Vx)
	assert.InDelta(t, 1.0, *body.Samples[1].Vx, 1e-9)
	assert.Nil(t, body.Samples[0].DispX)
}

func TestCreateTrajectoryCSV(t *testing.T) {
	ts := newTestServer(t)

	csvBody := "t,x,y\n0,0,0\n1,1,0\n2,4,0\n"
	resp, err := http.Post(ts.URL+"/trajectories?name=from-csv", "text/csv", strings.NewReader(csvBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	rec, err := http.Get(ts.URL + "/trajectories/" + created.ID + "?format=csv")
	require.NoError(t, err)
	defer rec.Body.Close()
	require.Equal(t, http.StatusOK, rec.StatusCode)
	assert.Equal(t, "text/csv", rec.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(rec.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4, "header plus three rows")
	assert.True(t, strings.HasPrefix(lines[0], "t,x,y,vx"), "header = %q", lines[0])
}

func TestCreateTrajectoryValidationFailures(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty", `{"name":"x","samples":[]}`, "empty"},
		{"single sample", `{"name":"x","samples":[{"t":0,"x":0,"y":0}]}`, "at least two samples"},
		{"repeated timestamp", `{"name":"x","samples":[{"t":0,"x":0,"y":0},{"t":1,"x":1,"y":0},{"t":1,"x":2,"y":0},{"t":2,"x":3,"y":0}]}`, "strictly increasing"},
		{"bad json", `{"samples":`, "JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body["error"], tt.wantMsg)
		})
	}
}

func TestUnitsConversion(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories/" + id + "?units=kph")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Units   string `json:"units"`
		Samples []struct {
			Speed *float64 `json:"speed"`
		} `json:"samples"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "kph", body.Units)
	require.NotNil(t, body.Samples[1].Speed)
	assert.InDelta(t, 3.6, *body.Samples[1].Speed, 1e-9)
}

func TestInvalidUnitsRejected(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories/" + id + "?units=knots")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories/" + id + "/summary?units=mph")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Units   string `json:"units"`
		Summary struct {
			Samples    int     `json:"samples"`
			PathLength float64 `json:"path_length"`
			MeanSpeed  float64 `json:"mean_speed"`
		} `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 4, body.Summary.Samples)
	assert.InDelta(t, 3.0, body.Summary.PathLength, 1e-9)
	assert.InDelta(t, units.ConvertSpeed(1.0, units.MPH), body.Summary.MeanSpeed, 1e-9)
}

func TestListAndDelete(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories")
	require.NoError(t, err)
	defer resp.Body.Close()
	var recs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
	assert.Len(t, recs, 1)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/trajectories/"+id, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusOK, del.StatusCode)

	missing, err := http.Get(ts.URL + "/trajectories/" + id)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestChartEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories/" + id + "/chart")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Curvature")
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/trajectories"},
		{http.MethodPost, fmt.Sprintf("/trajectories/%s/summary", id)},
		{http.MethodPost, fmt.Sprintf("/trajectories/%s", id)},
	} {
		req, err := http.NewRequest(tc.method, ts.URL+tc.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["version"])
}

func TestUnknownResource(t *testing.T) {
	ts := newTestServer(t)
	id := createFixture(t, ts)

	resp, err := http.Get(ts.URL + "/trajectories/" + id + "/histogram")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
