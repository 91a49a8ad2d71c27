package kinematics

import "math"

const kmhPerMPS = 3.6

// KMHToMPS converts km/h to m/s.
func KMHToMPS(kmh float64) float64 { return kmh / kmhPerMPS }

// MPSToKMH converts m/s to km/h.
func MPSToKMH(mps float64) float64 { return mps * kmhPerMPS }

// Vehicle is the point-mass state of the train under test. MassKg is fixed
// for a test; SpeedMPS changes only through Advance or an explicit reset.
type Vehicle struct {
	MassKg   float64 `json:"mass_kg"`
	SpeedMPS float64 `json:"speed_mps"`
}

// NewVehicle builds a vehicle from a mass and an initial speed in km/h.
func NewVehicle(massKg, speedKMH float64) Vehicle {
	return Vehicle{MassKg: massKg, SpeedMPS: KMHToMPS(speedKMH)}
}

// SpeedKMH returns the current speed in km/h.
func (v Vehicle) SpeedKMH() float64 { return MPSToKMH(v.SpeedMPS) }

// Advance applies decel (m/s²) for dt seconds, clamping at standstill, and
// returns the new speed in km/h.
func (v *Vehicle) Advance(decel, dt float64) float64 {
	v.SpeedMPS = math.Max(v.SpeedMPS-decel*dt, 0)
	return v.SpeedKMH()
}
