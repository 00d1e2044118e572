// Package truck holds the domain model of the mine-haul truck service: the
// sensor sample, the shared atomic state, the moving-average filter, the
// command decoder, the fault rules, the kinematic model, the navigation
// controller, routes and the on-disk data log.
package truck

// Sample is one sensor reading. Samples are immutable once produced and are
// passed by value through channels.
type Sample struct {
	TimestampMs uint64

	PosX    int
	PosY    int
	Heading int // degrees, 0..359
	Temp    int

	ElectricalFault bool
	HydraulicFault  bool
}
