// Command traj-plot reads a trajectory CSV, computes its dynamics, and
// renders PNG plots of the path, the speed profile, and the curvature.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/motion-data/dynamics.report/internal/dynamics"
	"github.com/motion-data/dynamics.report/internal/trajio"
)

func main() {
	input := flag.String("i", "trajectory.csv", "input trajectory CSV (t,x,y)")
	outDir := flag.String("o", ".", "output directory for PNG files")
	flag.Parse()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *input, err)
	}
	traj, err := trajio.ReadCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read %s: %v", *input, err)
	}

	enriched, err := dynamics.Compute(traj)
	if err != nil {
		log.Fatalf("failed to compute dynamics: %v", err)
	}

	base := filepath.Base(*input)

	if err := savePath(enriched, base, filepath.Join(*outDir, "path.png")); err != nil {
		log.Fatalf("failed to plot path: %v", err)
	}
	if err := saveSeries(enriched, base, "Speed", "speed (m/s)",
		func(row dynamics.EnrichedSample) float64 { return row.Speed },
		filepath.Join(*outDir, "speed.png")); err != nil {
		log.Fatalf("failed to plot speed: %v", err)
	}
	if err := saveSeries(enriched, base, "Curvature", "curvature (1/m)",
		func(row dynamics.EnrichedSample) float64 { return row.Curvature },
		filepath.Join(*outDir, "curvature.png")); err != nil {
		log.Fatalf("failed to plot curvature: %v", err)
	}

	log.Printf("✓ Wrote path.png, speed.png, curvature.png to %s", *outDir)
}

func savePath(et dynamics.EnrichedTrajectory, source, out string) error {
	pts := make(plotter.XYs, 0, len(et))
	for _, row := range et {
		pts = append(pts, plotter.XY{X: row.X, Y: row.Y})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Path - %s", source)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(6*vg.Inch, 6*vg.Inch, out)
}

func saveSeries(et dynamics.EnrichedTrajectory, source, title, yLabel string, value func(dynamics.EnrichedSample) float64, out string) error {
	pts := make(plotter.XYs, 0, len(et))
	for _, row := range et {
		v := value(row)
		if !dynamics.Finite(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: row.T, Y: v})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s", title, source)
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = yLabel

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, out)
}
