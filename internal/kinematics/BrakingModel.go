// Package kinematics holds the point-mass vehicle state and the braking physics
// used to turn a deceleration into distances and speed traces.
//
// Adding a new braking profile requires only implementing BrakingModel; the
// trace builder in the engine package works against the interface.
package kinematics

// BrakingModel is the physics contract for a braking profile.
// All distance values are in metres, velocities in m/s, and time in seconds.
type BrakingModel interface {
	// BrakingDistance returns the distance needed to stop from velocity v.
	BrakingDistance(v float64) float64

	// DecelerateStep brakes the vehicle toward standstill over dt seconds.
	// If the vehicle stops before dt expires it stays stopped for the remainder.
	// Returns (distance travelled, new velocity).
	DecelerateStep(v, dt float64) (dist, newV float64)
}
