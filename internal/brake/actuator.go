// Package brake models a pneumatic brake rig: commanded cylinder pressure is
// turned into friction force and raw deceleration, degraded by pad wear and an
// occasional pressure leak.
package brake

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput indicates an out-of-domain pressure or vehicle mass.
	ErrInvalidInput = errors.New("brake: invalid input")

	// ErrInvalidConfig indicates a physically meaningless rig configuration.
	ErrInvalidConfig = errors.New("brake: invalid config")
)

const (
	// MaxPressureBar is the upper bound of a pneumatic brake pipe.
	MaxPressureBar = 5.0
	// PascalsPerBar converts bar to Pa.
	PascalsPerBar = 1e5
	// LeakRetention is the fraction of commanded pressure left after a leak.
	LeakRetention = 0.7
)

// LeakSource supplies the uniform [0,1) draw that decides whether a leak
// occurs. *rand.Rand satisfies it.
type LeakSource interface {
	Float64() float64
}

// Config describes a physical brake rig. It is fixed for the life of an Actuator.
type Config struct {
	PistonArea          float64 `json:"piston_area" yaml:"piston_area"`                   // m²
	CylinderCount       int     `json:"cylinder_count" yaml:"cylinder_count"`             // ≥ 1
	FrictionCoefficient float64 `json:"friction_coefficient" yaml:"friction_coefficient"` // pad μ
	PadWear             float64 `json:"pad_wear" yaml:"pad_wear"`                         // 1 = new, 0 = worn out
	LeakProbability     float64 `json:"leak_probability" yaml:"leak_probability"`         // 0-1
	ResponseDelay       float64 `json:"response_delay" yaml:"response_delay"`             // seconds
}

// Validate checks that the configuration describes a usable rig.
func (c Config) Validate() error {
	switch {
	case !(c.PistonArea > 0) || math.IsInf(c.PistonArea, 1):
		return fmt.Errorf("%w: piston area %v must be positive and finite", ErrInvalidConfig, c.PistonArea)
	case c.CylinderCount < 1:
		return fmt.Errorf("%w: cylinder count %d must be at least 1", ErrInvalidConfig, c.CylinderCount)
	case !(c.FrictionCoefficient >= 0) || math.IsInf(c.FrictionCoefficient, 1):
		return fmt.Errorf("%w: friction coefficient %v must be non-negative and finite", ErrInvalidConfig, c.FrictionCoefficient)
	case !(c.PadWear >= 0 && c.PadWear <= 1):
		return fmt.Errorf("%w: pad wear %v outside [0,1]", ErrInvalidConfig, c.PadWear)
	case !(c.LeakProbability >= 0 && c.LeakProbability <= 1):
		return fmt.Errorf("%w: leak probability %v outside [0,1]", ErrInvalidConfig, c.LeakProbability)
	case !(c.ResponseDelay >= 0) || math.IsInf(c.ResponseDelay, 1):
		return fmt.Errorf("%w: response delay %v must be non-negative and finite", ErrInvalidConfig, c.ResponseDelay)
	}
	return nil
}

// WearFactor scales friction by the square of the remaining pad effectiveness.
func (c Config) WearFactor() float64 {
	return c.PadWear * c.PadWear
}

// EffectiveFriction is the friction coefficient after wear.
func (c Config) EffectiveFriction() float64 {
	return c.FrictionCoefficient * c.WearFactor()
}

// State is the mutable sensor state of an Actuator.
type State struct {
	CylinderPressure float64 `json:"cylinder_pressure"` // bar
	RawDeceleration  float64 `json:"raw_deceleration"`  // m/s²
}

// Application is the outcome of a single Apply call.
type Application struct {
	CommandedPressure float64 `json:"commanded_pressure"` // bar
	RealizedPressure  float64 `json:"realized_pressure"`  // bar
	ForcePerCylinder  float64 `json:"force_per_cylinder"` // N
	TotalForce        float64 `json:"total_force"`        // N
	RawDeceleration   float64 `json:"raw_deceleration"`   // m/s²
	Leaked            bool    `json:"leaked"`
}

// Actuator is a brake rig with its own pressure and deceleration state.
// It is not safe for concurrent use; give each scenario its own instance.
type Actuator struct {
	cfg   Config
	leak  LeakSource
	state State
}

// NewActuator creates an actuator for cfg. A nil leak source disables leaks.
func NewActuator(cfg Config, leak LeakSource) (*Actuator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Actuator{cfg: cfg, leak: leak}, nil
}

// Config returns the rig configuration.
func (a *Actuator) Config() Config { return a.cfg }

// State returns a copy of the current sensor state.
func (a *Actuator) State() State { return a.state }

// Apply commands pressureBar on every cylinder of a vehicle of massKg and
// returns the resulting forces and raw deceleration. Invalid input leaves the
// actuator state untouched and consumes no random draw.
//
// Deceleration is not capped: implausible values are left for the caller to spot.
func (a *Actuator) Apply(pressureBar, massKg float64) (Application, error) {
	if !(pressureBar >= 0 && pressureBar <= MaxPressureBar) {
		return Application{}, fmt.Errorf("%w: commanded pressure %v bar outside [0, %v]", ErrInvalidInput, pressureBar, MaxPressureBar)
	}
	if !(massKg > 0) {
		return Application{}, fmt.Errorf("%w: vehicle mass %v kg must be positive", ErrInvalidInput, massKg)
	}

	realized := pressureBar
	leaked := a.drawLeak()
	if leaked {
		realized *= LeakRetention
	}

	forcePerCylinder := realized * PascalsPerBar * a.cfg.PistonArea * a.cfg.EffectiveFriction()
	totalForce := forcePerCylinder * float64(a.cfg.CylinderCount)
	decel := totalForce / massKg

	a.state = State{CylinderPressure: realized, RawDeceleration: decel}

	return Application{
		CommandedPressure: pressureBar,
		RealizedPressure:  realized,
		ForcePerCylinder:  forcePerCylinder,
		TotalForce:        totalForce,
		RawDeceleration:   decel,
		Leaked:            leaked,
	}, nil
}

// Release drops cylinder pressure to zero. Calling it repeatedly is harmless.
func (a *Actuator) Release() {
	a.state = State{}
}

// drawLeak makes exactly one draw per call when a source is configured.
func (a *Actuator) drawLeak() bool {
	if a.leak == nil {
		return false
	}
	return a.leak.Float64() < a.cfg.LeakProbability
}
