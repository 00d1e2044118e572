package main

import (
	"encoding/json"
	"fmt"
	"time"

	"truck-service/truck"
)

const collectorPopTimeout = 200 * time.Millisecond

type stateSnapshot struct {
	Automatic int    `json:"automatico"`
	Faulted   int    `json:"defeito"`
	Throttle  int    `json:"aceleracao"`
	Steering  int    `json:"direcao"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Ang       int    `json:"ang"`
	Temp      int    `json:"temp"`
	FalhaElet int    `json:"falha_elet"`
	FalhaHidr int    `json:"falha_hidr"`
	Ts        uint64 `json:"ts"`
}

// collectorTask persists each sample to the data logs, publishes the log
// line and the full state snapshot, and mirrors the state into Redis. It is
// also a secondary ingress for command text so that commands are captured in
// the diagnostic log even when the command task lags.
func (app *TruckApp) collectorTask() {
	pause := time.Duration(app.cfg.MonitorPauseMs) * time.Millisecond

	app.log.Debug("Collector task running")

	for app.running() {
		if !app.collectorCycle() {
			continue
		}
		app.sleep(pause)
	}
	app.log.Debug("Collector task stopped")
}

// collectorCycle handles one sample and the command poll. It reports whether
// a sample was processed; a pop timeout skips the inter-iteration pause.
func (app *TruckApp) collectorCycle() bool {
	s, ok := app.bufCollector.PopWait(collectorPopTimeout)
	if !ok {
		return false
	}

	automatic := app.state.Status.Automatic.Load()
	alert := app.state.Status.TemperatureAlert.Load()
	desc := truck.Description(alert, s)

	if err := app.dlog.AppendPrimary(s, automatic, desc); err != nil {
		app.log.Error("Primary log write failed: %v", err)
	}

	rec := truck.Record{
		Sample:    s,
		Throttle:  app.state.Actuator.Throttle(),
		Steering:  app.state.Actuator.Steering(),
		Automatic: automatic,
		Faulted:   app.state.Status.Faulted.Load(),
		TempAlert: alert,
	}
	if err := app.dlog.AppendDetailed(rec); err != nil {
		app.log.Error("Detailed log write failed: %v", err)
	}

	app.bus.Publish(app.topics.Logs, fmt.Sprintf("%d,%d,%d,%d,%d",
		s.TimestampMs, app.opts.TruckID, s.PosX, s.PosY, s.Heading))

	snap := stateSnapshot{
		Automatic: truck.BoolFlag(automatic),
		Faulted:   truck.BoolFlag(rec.Faulted),
		Throttle:  rec.Throttle,
		Steering:  rec.Steering,
		X:         s.PosX,
		Y:         s.PosY,
		Ang:       s.Heading,
		Temp:      s.Temp,
		FalhaElet: truck.BoolFlag(s.ElectricalFault),
		FalhaHidr: truck.BoolFlag(s.HydraulicFault),
		Ts:        s.TimestampMs,
	}
	if data, err := json.Marshal(snap); err == nil {
		app.bus.Publish(app.topics.Snapshot, string(data))
	}

	if err := app.mirror.SendSnapshot(s, app.state); err != nil {
		app.log.Debug("State mirror write failed: %v", err)
	}

	if payload, ok := app.bus.TryPopMessage(app.topics.Commands); ok {
		changes := truck.DecodeCommand(payload)
		if !changes.Empty() {
			app.state.ApplyCommand(changes)
		}
		app.bufCommands.Push(payload)
		if err := app.dlog.AppendDiagnostic(nowMillis(), payload); err != nil {
			app.log.Error("Diagnostic log write failed: %v", err)
		}
	}

	return true
}
