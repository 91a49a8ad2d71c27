// Package engine drives a brake test run.
//
// A run has one environment and one brake rig, and walks through an ordered
// list of braking demands. For each phase:
//
//  1. Evaluate - the BCU applies the demand, scales it by adhesion, and scores
//     distance, slip, and TSI compliance.
//
//  2. Trace (optional) - with a positive time step the vehicle is integrated
//     through the response delay and the braking run until it stops.
//
//  3. Reset - the brake is released and the vehicle speed restored so the next
//     phase starts from the same conditions.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cxd309/bcu-engine/internal/bcu"
	"github.com/cxd309/bcu-engine/internal/brake"
	"github.com/cxd309/bcu-engine/internal/environment"
	"github.com/cxd309/bcu-engine/internal/kinematics"
	"github.com/cxd309/bcu-engine/internal/random"
)

// BrakeTest holds the state of a single run.
type BrakeTest struct {
	meta      TestMeta
	input     VehicleInput
	vehicle   kinematics.Vehicle
	actuator  *brake.Actuator
	env       *environment.Model
	phases    []Phase
	evaluator bcu.Evaluator
}

// NewBrakeTest constructs a BrakeTest from a TestInput, filling in a run ID,
// seed, and the default phases where the input leaves them empty.
func NewBrakeTest(input TestInput) (*BrakeTest, error) {
	if !(input.Vehicle.MassKg > 0) {
		return nil, fmt.Errorf("vehicle mass %v kg must be positive", input.Vehicle.MassKg)
	}
	if !(input.Vehicle.SpeedKMH >= 0) || math.IsInf(input.Vehicle.SpeedKMH, 1) {
		return nil, fmt.Errorf("vehicle speed %v km/h must be non-negative and finite", input.Vehicle.SpeedKMH)
	}
	if !(input.Meta.TimeStep >= 0) || math.IsInf(input.Meta.TimeStep, 1) {
		return nil, fmt.Errorf("time step %v must be non-negative and finite", input.Meta.TimeStep)
	}

	meta := input.Meta
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.Seed == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		meta.Seed = &seed
	}

	condition := input.Environment
	if condition == "" {
		condition = environment.Dry
	}
	env := environment.NewModel()
	if err := env.SetCondition(condition); err != nil {
		return nil, err
	}

	actuator, err := brake.NewActuator(input.Brakes, random.NewSource(*meta.Seed))
	if err != nil {
		return nil, fmt.Errorf("building brake rig: %w", err)
	}

	phases := input.Phases
	if len(phases) == 0 {
		phases = DefaultPhases()
	}

	return &BrakeTest{
		meta:     meta,
		input:    input.Vehicle,
		vehicle:  kinematics.NewVehicle(input.Vehicle.MassKg, input.Vehicle.SpeedKMH),
		actuator: actuator,
		env:      env,
		phases:   phases,
	}, nil
}

// SetLogger routes leak notices to l.
func (b *BrakeTest) SetLogger(l *log.Logger) {
	b.evaluator.Logger = l
}

// Run executes every phase in order and returns the log.
func (b *BrakeTest) Run() (TestLog, error) {
	adhesion := b.env.AdhesionFactor()
	out := TestLog{
		Meta:           b.meta,
		Vehicle:        b.input,
		Brakes:         b.actuator.Config(),
		Environment:    b.env.Condition(),
		AdhesionFactor: adhesion,
		Phases:         make([]PhaseResult, 0, len(b.phases)),
	}

	for _, phase := range b.phases {
		row, err := b.runPhase(phase, adhesion)
		if err != nil {
			return TestLog{}, fmt.Errorf("phase %q: %w", phase.Name, err)
		}
		out.Phases = append(out.Phases, row)
	}
	return out, nil
}

func (b *BrakeTest) runPhase(phase Phase, adhesion float64) (PhaseResult, error) {
	// Reset for the next phase whatever happens here.
	defer func() {
		b.actuator.Release()
		b.vehicle.SpeedMPS = kinematics.KMHToMPS(b.input.SpeedKMH)
	}()

	res, err := b.evaluator.Evaluate(b.vehicle, b.actuator, phase.Demand, adhesion)
	if err != nil {
		return PhaseResult{}, err
	}

	row := PhaseResult{Name: phase.Name, Result: res}
	if b.meta.TimeStep > 0 {
		row.Trace = buildTrace(b.vehicle, res.EffectiveDeceleration, b.actuator.Config().ResponseDelay, b.meta.TimeStep)
	}
	return row, nil
}

// buildTrace integrates v from the brake command to standstill: the vehicle
// coasts through the response delay, then brakes at decel. Returns nil when
// the vehicle would never stop.
func buildTrace(v kinematics.Vehicle, decel, delay, dt float64) []TraceRow {
	if decel <= 0 || dt <= 0 {
		return nil
	}
	const eps = 1e-9

	var model kinematics.BrakingModel = kinematics.ConstantDeceleration{ADcc: decel}
	rows := []TraceRow{{Timestamp: 0, SpeedMPS: v.SpeedMPS, Distance: 0}}
	t, dist := 0.0, 0.0

	for step := 0; step < MaxTraceSteps && v.SpeedMPS > 0; step++ {
		if remaining := delay - t; remaining > eps {
			// Response delay: no brake force yet.
			h := math.Min(dt, remaining)
			dist += v.SpeedMPS * h
			t += h
		} else {
			d, _ := model.DecelerateStep(v.SpeedMPS, dt)
			dist += d
			v.Advance(decel, dt)
			t += dt
		}
		rows = append(rows, TraceRow{Timestamp: t, SpeedMPS: v.SpeedMPS, Distance: dist})
	}
	return rows
}

// Sweep runs independent brake tests concurrently. Each input gets its own
// rig, vehicle, and generator, so a seeded input reproduces exactly however
// it is scheduled. Logs are returned in input order. Leak notices from every
// scenario go to logger, which may be nil.
func Sweep(ctx context.Context, inputs []TestInput, logger *log.Logger) ([]TestLog, error) {
	logs := make([]TestLog, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := Run(input, logger)
			if err != nil {
				return fmt.Errorf("scenario %d: %w", i, err)
			}
			logs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}

// Run builds and runs a test from input.
func Run(input TestInput, logger *log.Logger) (TestLog, error) {
	bt, err := NewBrakeTest(input)
	if err != nil {
		return TestLog{}, err
	}
	bt.SetLogger(logger)
	return bt.Run()
}

// DecodeJSON parses a JSON-encoded TestInput.
func DecodeJSON(data []byte) (TestInput, error) {
	var input TestInput
	if err := json.Unmarshal(data, &input); err != nil {
		return TestInput{}, fmt.Errorf("invalid input JSON: %w", err)
	}
	return input, nil
}

// DecodeYAML parses a YAML-encoded TestInput.
func DecodeYAML(data []byte) (TestInput, error) {
	var input TestInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return TestInput{}, fmt.Errorf("invalid input YAML: %w", err)
	}
	return input, nil
}

// RunJSON is the entry point shared by the CLI and WASM targets. It accepts a
// JSON-encoded TestInput, runs the test, and returns a JSON-encoded TestLog.
func RunJSON(jsonInput string) (string, error) {
	input, err := DecodeJSON([]byte(jsonInput))
	if err != nil {
		return "", err
	}

	testLog, err := Run(input, nil)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(testLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
