package main

import (
	"fmt"
	"time"

	"truck-service/truck"
)

// commandTask is the single decoding point for operator command text. Bus
// payloads picked up here or by the telemetry task all funnel through the
// shared command channel, so every command is decoded by the same function
// regardless of where it arrived.
func (app *TruckApp) commandTask() {
	period := time.Duration(app.cfg.CommandPeriodMs) * time.Millisecond
	popTimeout := 50 * time.Millisecond

	app.log.Debug("Command task running (period %v)", period)

	for app.running() {
		// keep the sample backlog bounded, the payload itself is unused here
		app.bufLogic.PopWait(popTimeout)

		cmd, ok := app.bufCommands.PopWait(popTimeout)
		if !ok {
			if payload, got := app.bus.TryPopMessage(app.topics.Commands); got {
				app.bufCommands.Push(payload)
			}
			app.sleep(period)
			continue
		}

		changes := truck.DecodeCommand(cmd)
		if !changes.Empty() {
			app.state.ApplyCommand(changes)
			app.log.Debug("Command applied: %q", cmd)
		}

		x, okX := truck.ExtractIntArg(cmd, "x")
		y, okY := truck.ExtractIntArg(cmd, "y")
		if okX && okY {
			app.bus.Publish(app.topics.Setpoints, fmt.Sprintf("x=%d,y=%d", x, y))
		}

		app.sleep(period)
	}
	app.log.Debug("Command task stopped")
}
