// Package synth generates trajectories from closed-form parametric paths.
// These serve as example datasets for the demo tooling and as fixtures with
// known kinematics for exercising the engine.
package synth

import (
	"fmt"
	"math"

	"github.com/motion-data/dynamics.report/internal/dynamics"
)

// Generator maps a timestamp to a planar position.
type Generator func(t float64) (x, y float64)

// Line moves from (x0, y0) with constant velocity (vx, vy).
func Line(x0, y0, vx, vy float64) Generator {
	return func(t float64) (float64, float64) {
		return x0 + vx*t, y0 + vy*t
	}
}

// Circle orbits the origin at radius r with angular velocity omega,
// giving constant speed r·|omega| and curvature radius r.
func Circle(r, omega float64) Generator {
	return func(t float64) (float64, float64) {
		return r * math.Cos(omega*t), r * math.Sin(omega*t)
	}
}

// Spiral is an Archimedean spiral: radius grows linearly with time while
// the angle advances at omega.
func Spiral(growth, omega float64) Generator {
	return func(t float64) (float64, float64) {
		r := growth * t
		return r * math.Cos(omega*t), r * math.Sin(omega*t)
	}
}

// Lissajous traces x = a·sin(fx·t + phase), y = b·sin(fy·t).
func Lissajous(a, b, fx, fy, phase float64) Generator {
	return func(t float64) (float64, float64) {
		return a * math.Sin(fx*t+phase), b * math.Sin(fy*t)
	}
}

// Sample evaluates g at n evenly spaced timestamps across [t0, t1].
func Sample(g Generator, t0, t1 float64, n int) (dynamics.Trajectory, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	if !(t1 > t0) {
		return nil, fmt.Errorf("time span [%v, %v] is empty", t0, t1)
	}
	step := (t1 - t0) / float64(n-1)
	traj := make(dynamics.Trajectory, n)
	for i := range traj {
		t := t0 + float64(i)*step
		x, y := g(t)
		traj[i] = dynamics.Sample{T: t, X: x, Y: y}
	}
	return traj, nil
}

// Demo returns a ready-parameterised generator by name for the CLI tooling.
func Demo(kind string) (Generator, bool) {
	switch kind {
	case "line":
		return Line(0, 0, 1, 0.5), true
	case "circle":
		return Circle(1, 1), true
	case "spiral":
		return Spiral(0.25, 2), true
	case "lissajous":
		return Lissajous(1, 1, 3, 2, math.Pi/2), true
	default:
		return nil, false
	}
}

// DemoKinds lists the names Demo accepts.
func DemoKinds() []string {
	return []string{"line", "circle", "spiral", "lissajous"}
}
