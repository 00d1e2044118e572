package truck

// Temperature thresholds. Above TempAlertLevel the truck raises a
// non-latching alert; above TempDefectLevel it latches a defect.
const (
	TempAlertLevel  = 95
	TempDefectLevel = 120
)

// FaultStatus is the result of evaluating one filtered sample against the
// fault rules.
type FaultStatus struct {
	TempAlert  bool
	TempDefect bool
	Electrical bool
	Hydraulic  bool
}

// Defect reports whether the sample carries a latching defect condition.
func (f FaultStatus) Defect() bool {
	return f.TempDefect || f.Electrical || f.Hydraulic
}

// Eventful reports whether the sample warrants publishing a fault event.
func (f FaultStatus) Eventful() bool {
	return f.TempAlert || f.TempDefect || f.Electrical || f.Hydraulic
}

// EvaluateFaults applies the fault thresholds to a filtered sample.
func EvaluateFaults(s Sample) FaultStatus {
	return FaultStatus{
		TempAlert:  s.Temp > TempAlertLevel,
		TempDefect: s.Temp > TempDefectLevel,
		Electrical: s.ElectricalFault,
		Hydraulic:  s.HydraulicFault,
	}
}

// FaultEvent is the truck-scoped event payload published on the bus when a
// sample is eventful. Flags are encoded as 0/1 for the operator tooling.
type FaultEvent struct {
	Temp       int    `json:"temp"`
	AlertTemp  int    `json:"alert_temp"`
	DefectTemp int    `json:"defect_temp"`
	FalhaEle   int    `json:"falha_ele"`
	FalhaHid   int    `json:"falha_hid"`
	Ts         uint64 `json:"ts"`
}

// FleetFaultEvent is the fleet-scoped variant, carrying the truck identity
// for the fleet manager.
type FleetFaultEvent struct {
	TruckID    int    `json:"truck_id"`
	Temp       int    `json:"temp"`
	AlertTemp  int    `json:"alert_temp"`
	DefectTemp int    `json:"defect_temp"`
	FalhaEle   int    `json:"falha_ele"`
	FalhaHid   int    `json:"falha_hid"`
	Ts         uint64 `json:"ts"`
}

// BoolFlag converts a boolean to its 0/1 wire encoding.
func BoolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewFaultEvent builds the truck-scoped event for a sample.
func NewFaultEvent(s Sample, f FaultStatus) FaultEvent {
	return FaultEvent{
		Temp:       s.Temp,
		AlertTemp:  BoolFlag(f.TempAlert),
		DefectTemp: BoolFlag(f.TempDefect),
		FalhaEle:   BoolFlag(f.Electrical),
		FalhaHid:   BoolFlag(f.Hydraulic),
		Ts:         s.TimestampMs,
	}
}

// NewFleetFaultEvent builds the fleet-scoped event for a sample.
func NewFleetFaultEvent(truckID int, s Sample, f FaultStatus) FleetFaultEvent {
	return FleetFaultEvent{
		TruckID:    truckID,
		Temp:       s.Temp,
		AlertTemp:  BoolFlag(f.TempAlert),
		DefectTemp: BoolFlag(f.TempDefect),
		FalhaEle:   BoolFlag(f.Electrical),
		FalhaHid:   BoolFlag(f.Hydraulic),
		Ts:         s.TimestampMs,
	}
}
