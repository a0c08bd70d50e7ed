// Package dynamics computes kinematic descriptors (velocity, acceleration,
// curvature, displacement) from a discretely sampled 2D trajectory.
//
// The engine is a pure transform: it validates the whole input up front,
// then produces one enriched row per input sample. Derivatives use a central
// difference at interior samples and a one-sided difference at the two
// boundary samples. Acceleration is obtained by differentiating the computed
// velocity sequence with the same scheme, not by a direct second-difference
// stencil on position; the two differ on non-uniformly sampled data. One
// refinement: the two-point boundary velocities reported on the first and
// last rows carry an error that does not shrink with the sampling step, so
// the acceleration pass substitutes three-point one-sided estimates at the
// endpoints. Reported velocities are unchanged; without the substitution the
// acceleration and curvature at the rows adjacent to each boundary would be
// systematically wrong (a sampled circle reads 4/3 of its true radius there)
// no matter how finely the trajectory is sampled.
//
// Structural problems (empty input, a single sample, non-monotonic time,
// non-finite values) fail the whole call; in particular a single-sample
// trajectory is rejected with ErrInsufficientSamples rather than returning
// a row of markers. Per-sample degeneracies (zero instantaneous speed, the
// missing first-row displacement) are not call failures. They are reported
// as NaN on the affected field only; the locally-straight curvature radius
// is +Inf. Use Finite to distinguish defined values from markers.
package dynamics

import (
	"encoding/json"
	"errors"
	"math"
)

// Validation errors. Compute wraps these with the offending sample index,
// so callers should test with errors.Is.
var (
	ErrEmptyInput          = errors.New("trajectory is empty")
	ErrInsufficientSamples = errors.New("trajectory needs at least two samples")
	ErrNonMonotonicTime    = errors.New("timestamps must be strictly increasing")
	ErrInvalidValue        = errors.New("non-finite sample value")
)

// Sample is one observation of planar motion: a timestamp and an x/y
// position. Coordinates share a common spatial unit; t shares a common
// time unit. Both are caller-defined.
type Sample struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trajectory is an ordered sequence of samples with strictly increasing
// timestamps. The engine never mutates it.
type Trajectory []Sample

// EnrichedSample is a Sample plus the derived kinematic fields. Undefined
// fields hold NaN (or +Inf for the locally-straight curvature radius) and
// marshal to JSON null.
type EnrichedSample struct {
	Sample

	Vx    float64 // velocity components
	Vy    float64
	Speed float64 // sqrt(vx²+vy²), always >= 0

	Ax    float64 // acceleration components
	Ay    float64
	Accel float64 // sqrt(ax²+ay²), always >= 0

	Curvature       float64 // signed; NaN when instantaneously stationary
	CurvatureRadius float64 // 1/|curvature|; +Inf on straight motion

	DispX float64 // displacement since the previous sample; NaN on row 0
	DispY float64
	Disp  float64 // step length sqrt(dispX²+dispY²)
}

// EnrichedTrajectory is the engine's output: same length and order as the
// input Trajectory, immutable once returned.
type EnrichedTrajectory []EnrichedSample

// Finite reports whether a derived value is defined, as opposed to a
// NaN/Inf missing-value marker.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type enrichedSampleJSON struct {
	T               float64  `json:"t"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Vx              *float64 `json:"vx"`
	Vy              *float64 `json:"vy"`
	Speed           *float64 `json:"speed"`
	Ax              *float64 `json:"ax"`
	Ay              *float64 `json:"ay"`
	Accel           *float64 `json:"accel"`
	Curvature       *float64 `json:"curv"`
	CurvatureRadius *float64 `json:"curv_radius"`
	DispX           *float64 `json:"disp_x"`
	DispY           *float64 `json:"disp_y"`
	Disp            *float64 `json:"disp"`
}

func jsonValue(v float64) *float64 {
	if !Finite(v) {
		return nil
	}
	return &v
}

// MarshalJSON renders missing-value markers as null so the table survives
// JSON transport (NaN and Inf are not representable in JSON).
func (e EnrichedSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(enrichedSampleJSON{
		T:               e.T,
		X:               e.X,
		Y:               e.Y,
		Vx:              jsonValue(e.Vx),
		Vy:              jsonValue(e.Vy),
		Speed:           jsonValue(e.Speed),
		Ax:              jsonValue(e.Ax),
		Ay:              jsonValue(e.Ay),
		Accel:           jsonValue(e.Accel),
		Curvature:       jsonValue(e.Curvature),
		CurvatureRadius: jsonValue(e.CurvatureRadius),
		DispX:           jsonValue(e.DispX),
		DispY:           jsonValue(e.DispY),
		Disp:            jsonValue(e.Disp),
	})
}
