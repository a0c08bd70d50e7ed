package dynamics

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSummarizeUniformMotion(t *testing.T) {
	traj := trajectory(
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 2, 4, 6, 8},
		[]float64{0, 0, 0, 0, 0},
	)
	out, err := Compute(traj)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	s := Summarize(out)

	if s.Samples != 5 {
		t.Errorf("Samples = %d, want 5", s.Samples)
	}
	approx(t, s.Duration, 4, 1e-12, "duration")
	approx(t, s.PathLength, 8, 1e-12, "path length")
	approx(t, s.NetDisplacement, 8, 1e-12, "net displacement")
	approx(t, s.Straightness, 1, 1e-12, "straightness")
	approx(t, s.MeanSpeed, 2, 1e-12, "mean speed")
	approx(t, s.MaxSpeed, 2, 1e-12, "max speed")
	approx(t, s.MeanAccel, 0, 1e-12, "mean accel")
	approx(t, s.MaxAccel, 0, 1e-12, "max accel")
}

func TestSummarizeClosedLoopStraightness(t *testing.T) {
	out, err := Compute(circle(629, 0.01))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	s := Summarize(out)
	// One full turn: path length ≈ 2π, net displacement ≈ 0.
	approx(t, s.PathLength, 2*math.Pi, 1e-2, "path length")
	if s.Straightness > 0.01 {
		t.Errorf("Straightness = %v, want ≈ 0 for a closed loop", s.Straightness)
	}
}

func TestSummarizeStationaryMarshalsNullStraightness(t *testing.T) {
	traj := trajectory([]float64{0, 1, 2}, []float64{1, 1, 1}, []float64{2, 2, 2})
	out, err := Compute(traj)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	s := Summarize(out)
	if !math.IsNaN(s.Straightness) {
		t.Fatalf("Straightness = %v, want NaN for zero path length", s.Straightness)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if fields["straightness"] != nil {
		t.Errorf("straightness = %v, want null", fields["straightness"])
	}
}
