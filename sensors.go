package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"time"

	"truck-service/truck"
)

type sensorReading struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Ang        int    `json:"ang"`
	Temp       int    `json:"temp"`
	FalhaElet  int    `json:"falha_elet"`
	FalhaHidr  int    `json:"falha_hidr"`
	Ts         uint64 `json:"ts"`
}

type positionReading struct {
	X   int    `json:"x"`
	Y   int    `json:"y"`
	Ang int    `json:"ang"`
	Ts  uint64 `json:"ts"`
}

// quantizeHeading rounds a noisy heading to a whole degree in [0, 359].
// The wrap after rounding matters: values just under 360 would otherwise
// round up to 360.
func quantizeHeading(h float64) int {
	return int(math.Round(truck.Norm360(h))) % 360
}

// sensorTask advances the vehicle model, synthesizes noisy measurements,
// filters them and fans the result out to the other tasks.
func (app *TruckApp) sensorTask() {
	period := time.Duration(app.cfg.SensorPeriodMs) * time.Millisecond
	nominal := period.Seconds()

	kin := truck.NewKinematics(app.cfg.Kinematics, app.cfg.StartX, app.cfg.StartY)
	filter := truck.NewFilter(app.cfg.FilterOrder)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// injected faults persist until an explicit clear arrives
	var electrical, hydraulic bool

	var lastPublished uint64
	last := time.Now()

	app.log.Debug("Sensor task running (period %v, filter order %d)", period, filter.Order())

	for app.running() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		if dt <= 0 {
			dt = nominal
		}

		if payload, ok := app.bus.TryPopMessage(app.topics.FaultInject); ok {
			truck.ApplyFaultInjection(payload, &electrical, &hydraulic)
			app.log.Info("Fault injection update: eletrica=%v hidraulica=%v", electrical, hydraulic)
		}

		throttle := app.state.Actuator.Throttle()
		steering := app.state.Actuator.Steering()
		accel := kin.Step(dt, throttle, steering)

		temp := app.cfg.BaseTemp +
			app.cfg.TempVelFactor*math.Abs(kin.Velocity) +
			app.cfg.TempAccelFactor*math.Abs(accel) +
			rng.NormFloat64()*app.cfg.NoiseTempStdDev

		raw := truck.Sample{
			TimestampMs:     nowMillis(),
			PosX:            int(math.Round(kin.PosX + rng.NormFloat64()*app.cfg.NoisePosStdDev)),
			PosY:            int(math.Round(kin.PosY + rng.NormFloat64()*app.cfg.NoisePosStdDev)),
			Heading:         quantizeHeading(kin.Heading + rng.NormFloat64()*app.cfg.NoiseAngStdDev),
			Temp:            int(math.Round(temp)),
			ElectricalFault: electrical,
			HydraulicFault:  hydraulic,
		}

		filtered := filter.Apply(raw)

		if filtered.TimestampMs != lastPublished {
			lastPublished = filtered.TimestampMs

			app.bufNav.Push(filtered)
			app.bufLogic.Push(filtered)
			app.bufFaults.Push(filtered)
			app.bufCollector.Push(filtered)

			sr := sensorReading{
				X:         filtered.PosX,
				Y:         filtered.PosY,
				Ang:       filtered.Heading,
				Temp:      filtered.Temp,
				FalhaElet: truck.BoolFlag(filtered.ElectricalFault),
				FalhaHidr: truck.BoolFlag(filtered.HydraulicFault),
				Ts:        filtered.TimestampMs,
			}
			if data, err := json.Marshal(sr); err == nil {
				app.bus.Publish(app.topics.Sensors, string(data))
			}

			pr := positionReading{
				X:   filtered.PosX,
				Y:   filtered.PosY,
				Ang: filtered.Heading,
				Ts:  filtered.TimestampMs,
			}
			if data, err := json.Marshal(pr); err == nil {
				app.bus.Publish(app.topics.Position, string(data))
			}
		}

		app.sleep(period)
	}
	app.log.Debug("Sensor task stopped")
}
