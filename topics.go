package main

import "fmt"

// Topics holds the bus topic names for one truck. All truck-scoped topics
// live under /mina/caminhoes/<id>; the fleet fault topic is shared.
type Topics struct {
	Commands    string // inbound command text
	Setpoints   string // inbound direct setpoints
	FaultInject string // inbound simulated fault injection
	Route       string // inbound/outbound route text

	Sensors   string // outbound telemetry summary
	Position  string // outbound position (also consumed by the route manager)
	Actuators string // outbound actuator state
	Events    string // outbound truck-scoped fault/alert events
	Logs      string // outbound simplified log line
	Snapshot  string // outbound full state snapshot

	FleetFaults string // outbound fleet-scoped fault events
}

// TopicsFor builds the topic set for a truck id.
func TopicsFor(truckID int) Topics {
	base := fmt.Sprintf("/mina/caminhoes/%d", truckID)
	return Topics{
		Commands:    base + "/comandos",
		Setpoints:   base + "/setpoints",
		FaultInject: base + "/sim/defeito",
		Route:       base + "/route",
		Sensors:     base + "/sensores",
		Position:    base + "/posicao",
		Actuators:   base + "/atuadores",
		Events:      base + "/eventos",
		Logs:        base + "/logs",
		Snapshot:    base + "/estado",
		FleetFaults: "/mina/gerente/falhas",
	}
}
