package main

import (
	"encoding/json"
	"time"

	"truck-service/truck"
)

const (
	manualThrottleStep  = 6
	manualThrottleDecay = 3
	manualSteeringStep  = 5

	navPopTimeout = 50 * time.Millisecond
)

type actuatorState struct {
	Throttle int    `json:"aceleracao"`
	Steering int    `json:"direcao"`
	Mode     string `json:"modo"`
	Ts       uint64 `json:"ts"`
}

// navigationTask drives the actuators. The mode is read from the shared
// state every cycle (level-triggered); a latched fault overrides both modes.
func (app *TruckApp) navigationTask() {
	period := time.Duration(app.cfg.ControlPeriodMs) * time.Millisecond

	ctrl := truck.NewNavController(app.cfg.Control, int(app.cfg.StartX), int(app.cfg.StartY))

	app.log.Debug("Navigation task running (period %v)", period)

	for app.running() {
		app.navigationCycle(ctrl)
		app.sleep(period)
	}
	app.log.Debug("Navigation task stopped")
}

// navigationCycle runs one control iteration.
func (app *TruckApp) navigationCycle(ctrl *truck.NavController) {
	s, haveSample := app.bufNav.PopWait(navPopTimeout)
	if haveSample {
		ctrl.Observe(s)
	}

	switch {
	case app.state.Status.Faulted.Load():
		app.state.Actuator.SetThrottle(0)
		app.publishActuators("defeito")

	case !app.state.Status.Automatic.Load():
		// manual mode forgets the controller state so that the next
		// automatic entry re-seeds the integrator
		ctrl.Disable()

		// the target keeps tracking the latest known position even
		// when no fresh sample arrived this cycle, so switching back
		// to automatic never chases a stale waypoint
		if haveSample {
			ctrl.TrackPosition(s)
		} else if last, ok := ctrl.LastKnown(); ok {
			ctrl.TrackPosition(last)
		}

		throttle := app.state.Actuator.Throttle()
		if app.state.Command.WantAccelerate.Load() {
			throttle += manualThrottleStep
		} else {
			throttle -= manualThrottleDecay
		}
		app.state.Actuator.SetThrottle(throttle)

		steering := app.state.Actuator.Steering()
		if app.state.Command.WantTurnRight.Load() {
			steering -= manualSteeringStep
		}
		if app.state.Command.WantTurnLeft.Load() {
			steering += manualSteeringStep
		}
		app.state.Actuator.SetSteering(steering)

		app.publishActuators("man")

	default:
		ctrl.EnsureEnabled(app.state.Actuator.Throttle())

		if payload, ok := app.bus.TryPopMessage(app.topics.Setpoints); ok {
			if x, okX := truck.ExtractIntArg(payload, "x"); okX {
				ctrl.SetTargetX(x)
			}
			if y, okY := truck.ExtractIntArg(payload, "y"); okY {
				ctrl.SetTargetY(y)
			}
			tx, ty := ctrl.Target()
			app.log.Debug("Setpoint updated: (%d, %d)", tx, ty)
		}

		if !haveSample {
			// hold the last outputs until a fresh sample arrives
			return
		}

		throttle, steering := ctrl.Step(s)
		app.state.Actuator.SetThrottle(throttle)
		app.state.Actuator.SetSteering(steering)

		app.publishActuators("auto")
	}
}

func (app *TruckApp) publishActuators(mode string) {
	as := actuatorState{
		Throttle: app.state.Actuator.Throttle(),
		Steering: app.state.Actuator.Steering(),
		Mode:     mode,
		Ts:       nowMillis(),
	}
	if data, err := json.Marshal(as); err == nil {
		app.bus.Publish(app.topics.Actuators, string(data))
	}
}
