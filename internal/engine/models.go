package engine

import (
	"github.com/cxd309/bcu-engine/internal/bcu"
	"github.com/cxd309/bcu-engine/internal/brake"
	"github.com/cxd309/bcu-engine/internal/environment"
)

// MaxTraceSteps bounds the number of rows in a single phase trace.
const MaxTraceSteps = 100000

// TestMeta holds the identity and timing parameters for a brake test run.
type TestMeta struct {
	RunID    string  `json:"run_id" yaml:"run_id"`
	Seed     *int64  `json:"seed,omitempty" yaml:"seed,omitempty"` // leak draw seed; nil = random
	TimeStep float64 `json:"time_step" yaml:"time_step"`           // seconds; 0 disables traces
}

// VehicleInput is the vehicle as described in the test input.
type VehicleInput struct {
	MassKg   float64 `json:"mass_kg" yaml:"mass_kg"`
	SpeedKMH float64 `json:"speed_kmh" yaml:"speed_kmh"`
}

// Phase is a single braking demand in a test sequence.
type Phase struct {
	Name   string  `json:"name" yaml:"name"`
	Demand float64 `json:"demand" yaml:"demand"` // bar
}

// TestInput is the JSON/YAML-serialisable input to the engine.
type TestInput struct {
	Meta        TestMeta              `json:"test_meta" yaml:"test_meta"`
	Vehicle     VehicleInput          `json:"vehicle" yaml:"vehicle"`
	Brakes      brake.Config          `json:"brakes" yaml:"brakes"`
	Environment environment.Condition `json:"environment" yaml:"environment"`
	Phases      []Phase               `json:"phases" yaml:"phases"`
}

// TraceRow is the vehicle state at one timestep of a phase.
type TraceRow struct {
	Timestamp float64 `json:"timestamp"` // seconds since the brake command
	SpeedMPS  float64 `json:"speed_mps"`
	Distance  float64 `json:"distance"` // metres since the brake command
}

// PhaseResult is the outcome of one phase.
type PhaseResult struct {
	Name   string         `json:"name"`
	Result bcu.TestResult `json:"result"`
	Trace  []TraceRow     `json:"trace,omitempty"`
}

// TestLog is the complete output of a brake test run.
type TestLog struct {
	Meta           TestMeta              `json:"test_meta"`
	Vehicle        VehicleInput          `json:"vehicle"`
	Brakes         brake.Config          `json:"brakes"`
	Environment    environment.Condition `json:"environment"`
	AdhesionFactor float64               `json:"adhesion_factor"`
	Phases         []PhaseResult         `json:"phases"`
}

// DefaultPhases are the 30/50/70/100 % demands of a full-service brake test.
func DefaultPhases() []Phase {
	return []Phase{
		{Name: "30% (1.5 bar)", Demand: 1.5},
		{Name: "50% (2.5 bar)", Demand: 2.5},
		{Name: "70% (3.5 bar)", Demand: 3.5},
		{Name: "100% (5.0 bar)", Demand: 5.0},
	}
}
