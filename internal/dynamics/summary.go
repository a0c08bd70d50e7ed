package dynamics

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrajectorySummary aggregates an enriched trajectory into the handful of
// scalars a motion report leads with.
type TrajectorySummary struct {
	Samples         int     `json:"samples"`
	Duration        float64 `json:"duration"`
	PathLength      float64 `json:"path_length"`
	NetDisplacement float64 `json:"net_displacement"`
	// Straightness is net displacement over path length: 1 for a straight
	// run, approaching 0 for a path that returns to its origin.
	Straightness float64 `json:"straightness"`
	MeanSpeed    float64 `json:"mean_speed"`
	MaxSpeed     float64 `json:"max_speed"`
	MeanAccel    float64 `json:"mean_accel"`
	MaxAccel     float64 `json:"max_accel"`
}

// Summarize reduces an enriched trajectory to its summary statistics.
// Missing-value markers never reach the aggregates: the undefined row-0
// displacement is skipped, and speed/accel are defined on every row.
func Summarize(et EnrichedTrajectory) TrajectorySummary {
	n := len(et)
	s := TrajectorySummary{Samples: n}
	if n == 0 {
		return s
	}
	s.Duration = et[n-1].T - et[0].T

	speeds := make([]float64, n)
	accels := make([]float64, n)
	for i, row := range et {
		speeds[i] = row.Speed
		accels[i] = row.Accel
		if i > 0 {
			s.PathLength += row.Disp
		}
	}
	s.MeanSpeed = stat.Mean(speeds, nil)
	s.MaxSpeed = floats.Max(speeds)
	s.MeanAccel = stat.Mean(accels, nil)
	s.MaxAccel = floats.Max(accels)

	s.NetDisplacement = math.Hypot(et[n-1].X-et[0].X, et[n-1].Y-et[0].Y)
	if s.PathLength > 0 {
		s.Straightness = s.NetDisplacement / s.PathLength
	} else {
		s.Straightness = math.NaN()
	}
	return s
}

// MarshalJSON renders an undefined straightness (zero path length) as null.
func (s TrajectorySummary) MarshalJSON() ([]byte, error) {
	type alias TrajectorySummary
	return json.Marshal(struct {
		alias
		Straightness *float64 `json:"straightness"`
	}{alias(s), jsonValue(s.Straightness)})
}
