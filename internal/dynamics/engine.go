package dynamics

import (
	"fmt"
	"math"
)

// Compute turns a sampled trajectory into its enriched form. The whole input
// is validated before any derived field is produced; on a validation error
// no partial output is returned.
//
// Each output row depends only on the ±1-sample window around it, so the
// result is independent of evaluation order.
func Compute(traj Trajectory) (EnrichedTrajectory, error) {
	if err := Validate(traj); err != nil {
		return nil, err
	}

	n := len(traj)
	out := make(EnrichedTrajectory, n)

	ts := make([]float64, n)
	for i, s := range traj {
		out[i].Sample = s
		ts[i] = s.T
	}

	// First pass: velocity from position.
	vx := make([]float64, n)
	vy := make([]float64, n)
	for i := range traj {
		vx[i] = diff(ts, i, func(j int) float64 { return traj[j].X })
		vy[i] = diff(ts, i, func(j int) float64 { return traj[j].Y })
		out[i].Vx = vx[i]
		out[i].Vy = vy[i]
		out[i].Speed = math.Hypot(vx[i], vy[i])
	}

	// Second pass: acceleration from the velocity sequence, same scheme.
	// The two-point boundary velocities above stay in the output rows, but
	// their error does not shrink with the sampling step, so differencing
	// across them would corrupt the acceleration (and with it the curvature)
	// at the rows next to each boundary. The pass therefore reads three-point
	// one-sided estimates at the endpoints instead.
	avx, avy := vx, vy
	if n > 2 {
		avx = append([]float64(nil), vx...)
		avy = append([]float64(nil), vy...)
		for _, i := range []int{0, n - 1} {
			avx[i] = edgeDiff(ts, i, func(j int) float64 { return traj[j].X })
			avy[i] = edgeDiff(ts, i, func(j int) float64 { return traj[j].Y })
		}
	}
	for i := range traj {
		ax := diff(ts, i, func(j int) float64 { return avx[j] })
		ay := diff(ts, i, func(j int) float64 { return avy[j] })
		out[i].Ax = ax
		out[i].Ay = ay
		out[i].Accel = math.Hypot(ax, ay)

		out[i].Curvature, out[i].CurvatureRadius = curvature(vx[i], vy[i], ax, ay, out[i].Speed)
	}

	// Displacement since the previous sample; undefined on row 0.
	out[0].DispX = math.NaN()
	out[0].DispY = math.NaN()
	out[0].Disp = math.NaN()
	for i := 1; i < n; i++ {
		out[i].DispX = traj[i].X - traj[i-1].X
		out[i].DispY = traj[i].Y - traj[i-1].Y
		out[i].Disp = math.Hypot(out[i].DispX, out[i].DispY)
	}

	return out, nil
}

// Validate checks the engine's structural preconditions without computing
// anything: non-empty, at least two samples, finite values, strictly
// increasing timestamps.
func Validate(traj Trajectory) error {
	switch len(traj) {
	case 0:
		return ErrEmptyInput
	case 1:
		return ErrInsufficientSamples
	}
	for i, s := range traj {
		if !Finite(s.T) || !Finite(s.X) || !Finite(s.Y) {
			return fmt.Errorf("%w at sample %d (t=%v x=%v y=%v)", ErrInvalidValue, i, s.T, s.X, s.Y)
		}
	}
	for i := 1; i < len(traj); i++ {
		if traj[i].T <= traj[i-1].T {
			return fmt.Errorf("%w: sample %d (t=%v) does not advance past sample %d (t=%v)",
				ErrNonMonotonicTime, i, traj[i].T, i-1, traj[i-1].T)
		}
	}
	return nil
}

// diff estimates d(f)/dt at index i over the timestamp series ts: central
// difference where both neighbours exist, forward at the first sample,
// backward at the last. Validate guarantees the denominators are nonzero.
func diff(ts []float64, i int, f func(int) float64) float64 {
	switch {
	case i == 0:
		return (f(1) - f(0)) / (ts[1] - ts[0])
	case i == len(ts)-1:
		return (f(i) - f(i-1)) / (ts[i] - ts[i-1])
	default:
		return (f(i+1) - f(i-1)) / (ts[i+1] - ts[i-1])
	}
}

// edgeDiff estimates d(f)/dt at the first or last sample from the three
// nearest samples (the Lagrange three-point stencil, valid for non-uniform
// spacing). Unlike diff's two-point boundary estimate, its error vanishes
// quadratically with the step, which keeps the second differencing pass
// accurate at the rows adjacent to each boundary. Requires len(ts) >= 3.
func edgeDiff(ts []float64, i int, f func(int) float64) float64 {
	j, k := i+1, i+2
	if i != 0 {
		j, k = i-1, i-2
	}
	a := ts[j] - ts[i]
	b := ts[k] - ts[i]
	return -(a+b)/(a*b)*f(i) + b/(a*(b-a))*f(j) - a/(b*(b-a))*f(k)
}

// curvature applies the planar-curve formula k = (vx·ay − vy·ax) / speed³.
// A momentarily stationary sample has no defined curvature (NaN); straight
// motion has zero curvature and an infinite radius.
func curvature(vx, vy, ax, ay, speed float64) (curv, radius float64) {
	if speed == 0 {
		return math.NaN(), math.NaN()
	}
	curv = (vx*ay - vy*ax) / (speed * speed * speed)
	if curv == 0 {
		return 0, math.Inf(1)
	}
	return curv, 1 / math.Abs(curv)
}
