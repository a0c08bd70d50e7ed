// Command traj-gen writes a synthetic trajectory CSV for demos and testing.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/motion-data/dynamics.report/internal/synth"
	"github.com/motion-data/dynamics.report/internal/trajio"
)

func main() {
	output := flag.String("o", "trajectory.csv", "output path")
	kind := flag.String("kind", "circle", "path kind: "+strings.Join(synth.DemoKinds(), ", "))
	n := flag.Int("n", 500, "number of samples")
	t0 := flag.Float64("t0", 0, "start time (s)")
	t1 := flag.Float64("t1", 10, "end time (s)")
	flag.Parse()

	gen, ok := synth.Demo(*kind)
	if !ok {
		log.Fatalf("unknown path kind %q, valid kinds: %s", *kind, strings.Join(synth.DemoKinds(), ", "))
	}

	traj, err := synth.Sample(gen, *t0, *t1, *n)
	if err != nil {
		log.Fatalf("failed to generate trajectory: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	if err := trajio.WriteCSV(f, traj); err != nil {
		log.Fatalf("failed to write CSV: %v", err)
	}
	log.Printf("✓ Created: %s (%d samples of %q over [%g, %g])", *output, *n, *kind, *t0, *t1)
}
