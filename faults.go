package main

import (
	"encoding/json"
	"time"

	"truck-service/truck"
)

// faultMonitorTask evaluates each filtered sample against the temperature
// thresholds and hardware fault flags. The temperature alert follows the
// level; a defect latches the faulted status until a rearm command clears it.
func (app *TruckApp) faultMonitorTask() {
	popTimeout := 100 * time.Millisecond
	pause := time.Duration(app.cfg.MonitorPauseMs) * time.Millisecond

	app.log.Debug("Fault monitor task running")

	for app.running() {
		s, ok := app.bufFaults.PopWait(popTimeout)
		if !ok {
			continue
		}

		f := truck.EvaluateFaults(s)

		app.state.Status.TemperatureAlert.Store(f.TempAlert)
		if f.Defect() {
			if !app.state.Status.Faulted.Load() {
				app.log.Warn("Defect detected: temp=%d eletrica=%v hidraulica=%v",
					s.Temp, f.Electrical, f.Hydraulic)
			}
			app.state.Status.Faulted.Store(true)
		}

		if f.Eventful() {
			if data, err := json.Marshal(truck.NewFaultEvent(s, f)); err == nil {
				app.bus.Publish(app.topics.Events, string(data))
			}
			if data, err := json.Marshal(truck.NewFleetFaultEvent(app.opts.TruckID, s, f)); err == nil {
				app.bus.Publish(app.topics.FleetFaults, string(data))
			}
		}

		app.sleep(pause)
	}
	app.log.Debug("Fault monitor task stopped")
}
