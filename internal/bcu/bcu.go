// Package bcu implements the Brake Control Unit test: it drives a brake
// actuator, scales the result by rail adhesion, and scores the demand against
// the TSI minimum deceleration.
package bcu

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/cxd309/bcu-engine/internal/brake"
	"github.com/cxd309/bcu-engine/internal/environment"
	"github.com/cxd309/bcu-engine/internal/kinematics"
)

// ErrInvalidInput indicates an adhesion factor outside its valid range.
var ErrInvalidInput = errors.New("bcu: invalid input")

const (
	// MinDeceleration is the TSI minimum effective deceleration, m/s².
	MinDeceleration = 0.8
	// LowAdhesionReference is the reference deceleration for degraded rail, m/s².
	LowAdhesionReference = 0.3
	// slipRatio scales the slip threshold relative to MinDeceleration.
	slipRatio = 0.5
)

// TestResult is the record of one braking demand. It is a value: nothing
// mutates it after Evaluate returns.
type TestResult struct {
	CommandedPressure     float64 `json:"commanded_pressure"`     // bar
	RealizedPressure      float64 `json:"realized_pressure"`      // bar
	ForcePerCylinder      float64 `json:"force_per_cylinder"`     // N
	TotalForce            float64 `json:"total_force"`            // N
	RawDeceleration       float64 `json:"raw_deceleration"`       // m/s²
	EffectiveDeceleration float64 `json:"effective_deceleration"` // m/s²
	BrakingDistance       float64 `json:"braking_distance"`       // m, +Inf if the vehicle never stops
	SlipDetected          bool    `json:"slip_detected"`
	Compliant             bool    `json:"compliant"`
	LeakDetected          bool    `json:"leak_detected"`
}

// MarshalJSON encodes an infinite braking distance as null, since JSON has no
// representation for +Inf.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type alias TestResult
	out := struct {
		alias
		BrakingDistance *float64 `json:"braking_distance"`
	}{alias: alias(r)}
	if !math.IsInf(r.BrakingDistance, 0) && !math.IsNaN(r.BrakingDistance) {
		d := r.BrakingDistance
		out.BrakingDistance = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: a null distance becomes +Inf.
func (r *TestResult) UnmarshalJSON(data []byte) error {
	type alias TestResult
	var in struct {
		alias
		BrakingDistance *float64 `json:"braking_distance"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = TestResult(in.alias)
	r.BrakingDistance = math.Inf(1)
	if in.BrakingDistance != nil {
		r.BrakingDistance = *in.BrakingDistance
	}
	return nil
}

// Evaluator runs brake tests. The zero value is ready to use.
type Evaluator struct {
	// Logger receives leak notices. Nil discards them.
	Logger *log.Logger
}

// Evaluate applies commandedPressure through actuator for vehicle and scores
// the result under adhesion. The actuator state is left applied; callers
// release it between independent phases.
func (e *Evaluator) Evaluate(vehicle kinematics.Vehicle, actuator *brake.Actuator, commandedPressure, adhesion float64) (TestResult, error) {
	if !(adhesion >= environment.MinAdhesion && adhesion <= environment.MaxAdhesion) {
		return TestResult{}, fmt.Errorf("%w: adhesion factor %v outside [%v, %v]",
			ErrInvalidInput, adhesion, environment.MinAdhesion, environment.MaxAdhesion)
	}

	app, err := actuator.Apply(commandedPressure, vehicle.MassKg)
	if err != nil {
		return TestResult{}, err
	}
	if app.Leaked && e.Logger != nil {
		e.Logger.Printf("brake leak detected: pressure reduced from %.2f to %.2f bar", app.CommandedPressure, app.RealizedPressure)
	}

	effective := app.RawDeceleration * adhesion

	return TestResult{
		CommandedPressure:     app.CommandedPressure,
		RealizedPressure:      app.RealizedPressure,
		ForcePerCylinder:      app.ForcePerCylinder,
		TotalForce:            app.TotalForce,
		RawDeceleration:       app.RawDeceleration,
		EffectiveDeceleration: effective,
		BrakingDistance:       BrakingDistance(vehicle.SpeedMPS, effective, actuator.Config().ResponseDelay),
		SlipDetected:          DetectSlip(app.RawDeceleration, adhesion),
		Compliant:             IsCompliant(effective),
		LeakDetected:          app.Leaked,
	}, nil
}

// BrakingDistance is the distance from brake command to standstill, including
// the unbraked run through the response delay. It is +Inf when
// effectiveDecel ≤ 0.
func BrakingDistance(speedMPS, effectiveDecel, responseDelay float64) float64 {
	return kinematics.StoppingDistance(speedMPS, effectiveDecel, responseDelay)
}

// DetectSlip compares the raw (pre-adhesion) deceleration against a threshold
// scaled by adhesion.
//
// NOTE: raw is not adhesion-scaled while the threshold is. Kept as modelled
// pending review by a braking specialist.
func DetectSlip(rawDecel, adhesion float64) bool {
	threshold := slipRatio * MinDeceleration * adhesion
	return rawDecel < threshold
}

// IsCompliant reports whether effectiveDecel meets the TSI minimum.
func IsCompliant(effectiveDecel float64) bool {
	return effectiveDecel >= MinDeceleration
}
