// Package report renders a brake test log as a console report.
package report

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cxd309/bcu-engine/internal/bcu"
	"github.com/cxd309/bcu-engine/internal/engine"
	"github.com/cxd309/bcu-engine/internal/environment"
)

// HazardDistance is the braking distance above which a phase is flagged, metres.
const HazardDistance = 50.0

// Write prints the run header and one block per phase to w.
func Write(w io.Writer, log engine.TestLog) error {
	p := message.NewPrinter(language.English)
	title := cases.Title(language.English)

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = p.Fprintf(w, format, args...)
		}
	}

	printf("\n=== BRAKE TEST SIMULATION ===\n")
	printf("Run: %s\n", log.Meta.RunID)
	printf("Train Mass: %.1f tonnes | Initial Speed: %.0f km/h\n", log.Vehicle.MassKg/1000, log.Vehicle.SpeedKMH)
	printf("Brake System: %d cylinders | Piston Area: %v m²\n", log.Brakes.CylinderCount, log.Brakes.PistonArea)
	printf("Friction Coefficient: %v | Pad Wear: %.0f%% efficiency\n", log.Brakes.FrictionCoefficient, log.Brakes.PadWear*100)
	printf("Current Adhesion: %.2f | Environment: %s\n", log.AdhesionFactor, title.String(string(log.Environment)))

	for _, phase := range log.Phases {
		r := phase.Result
		printf("\nTEST %s:\n", phase.Name)
		if r.LeakDetected {
			printf("Brake leak detected! Pressure reduced.\n")
		}
		printf("Effective Pressure: %.2f bar\n", r.RealizedPressure)
		printf("Force per Cylinder: %.0f N | Total Force: %.0f N\n", r.ForcePerCylinder, r.TotalForce)
		printf("Theoretical Deceleration: %.2f m/s²\n", r.RawDeceleration)
		printf("Effective Deceleration: %.2f m/s²\n", r.EffectiveDeceleration)
		printf("Braking Distance: %s\n", formatDistance(r.BrakingDistance))
		printf("Slip: %s | TSI: %s\n", yesNo(r.SlipDetected), passFail(r.Compliant))
	}

	notes := Annotations(log)
	if len(notes) > 0 {
		printf("\n")
	}
	for _, n := range notes {
		printf("NOTE: %s\n", n)
	}
	return err
}

// Annotations returns the reference lines a chart of this run would carry:
// the TSI minimum always, the low-adhesion reference off dry rail, and the
// hazard distance when any phase exceeds it.
func Annotations(log engine.TestLog) []string {
	notes := []string{fmt.Sprintf("TSI minimum deceleration %.1f m/s²", bcu.MinDeceleration)}
	if log.Environment != environment.Dry {
		notes = append(notes, fmt.Sprintf("low-adhesion reference %.1f m/s²", bcu.LowAdhesionReference))
	}
	for _, phase := range log.Phases {
		if phase.Result.BrakingDistance > HazardDistance {
			notes = append(notes, fmt.Sprintf("braking distance exceeds %.0f m hazard threshold", HazardDistance))
			break
		}
	}
	return notes
}

func formatDistance(d float64) string {
	if math.IsInf(d, 1) {
		return "never stops"
	}
	return fmt.Sprintf("%.1f meters", d)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func passFail(b bool) string {
	if b {
		return "PASS"
	}
	return "FAIL"
}
