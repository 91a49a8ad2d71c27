package kinematics

import "math"

// ConstantDeceleration implements BrakingModel with a fixed deceleration rate.
type ConstantDeceleration struct {
	ADcc float64 `json:"a_dcc"` // effective braking deceleration, m/s² (positive)
}

func (c ConstantDeceleration) BrakingDistance(v float64) float64 {
	if c.ADcc <= 0 {
		return math.Inf(1)
	}
	return (v * v) / (2 * c.ADcc)
}

func (c ConstantDeceleration) DecelerateStep(v, dt float64) (float64, float64) {
	if c.ADcc <= 0 {
		return v * dt, v
	}
	if v <= 0 {
		return 0, 0
	}
	tToStop := v / c.ADcc
	if tToStop <= dt {
		// Stops mid-step.
		return v * tToStop / 2, 0
	}
	newV := v - c.ADcc*dt
	return v*dt - 0.5*c.ADcc*dt*dt, newV
}

// StoppingDistance is the total distance from brake command to standstill:
// the unbraked run through the response delay plus the kinematic braking
// distance v²/2a. It is +Inf when decel ≤ 0.
func StoppingDistance(speed, decel, delay float64) float64 {
	if decel <= 0 {
		return math.Inf(1)
	}
	delayDistance := speed * delay
	return delayDistance + ConstantDeceleration{ADcc: decel}.BrakingDistance(speed)
}
