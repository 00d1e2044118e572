package truck

import "sync/atomic"

// State is the shared truck state, created once at startup and passed by
// reference to every task. Each field is independently atomic; there is NO
// cross-field atomicity. A reader loading Automatic and then Faulted may
// observe a write between the two loads. That raciness is part of the
// contract, not a defect.
type State struct {
	Status   Status
	Command  Command
	Actuator Actuator
}

// Status holds the operating flags. Faulted is a latch: once set it stays
// set until an explicit rearm command clears it, regardless of readings.
type Status struct {
	Automatic        atomic.Bool
	Faulted          atomic.Bool
	TemperatureAlert atomic.Bool
}

// Command holds operator request flags. The type does not enforce mutual
// exclusion; precedence is applied by the consuming tasks.
type Command struct {
	WantAutomatic  atomic.Bool
	WantManual     atomic.Bool
	WantRearm      atomic.Bool
	WantAccelerate atomic.Bool
	WantTurnRight  atomic.Bool
	WantTurnLeft   atomic.Bool
}

// Actuator holds the control outputs. The setters clamp, so stored values
// are always within range.
type Actuator struct {
	throttle atomic.Int32 // -100..100
	steering atomic.Int32 // -180..180
}

const (
	ThrottleMin = -100
	ThrottleMax = 100
	SteeringMin = -180
	SteeringMax = 180
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetThrottle stores the throttle clamped to [-100, 100].
func (a *Actuator) SetThrottle(v int) {
	a.throttle.Store(int32(clampInt(v, ThrottleMin, ThrottleMax)))
}

// SetSteering stores the steering clamped to [-180, 180].
func (a *Actuator) SetSteering(v int) {
	a.steering.Store(int32(clampInt(v, SteeringMin, SteeringMax)))
}

func (a *Actuator) Throttle() int { return int(a.throttle.Load()) }
func (a *Actuator) Steering() int { return int(a.steering.Load()) }

// NewState returns a State with all flags false and actuators at zero.
func NewState() *State {
	return &State{}
}
