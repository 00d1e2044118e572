package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"truck-service/channel"
	"truck-service/truck"
)

// TruckApp owns every long-lived resource of the service: the shared truck
// state, the five inter-task channels, the message bus, the Redis state
// mirror, the data log and the task goroutines.
type TruckApp struct {
	log    *LeveledLogger
	cfg    *Config
	opts   *Options
	topics Topics

	state  *truck.State
	bus    *Bus
	mirror *Mirror
	dlog   *truck.DataLog
	route  *truck.Route

	// sample fan-out channels, one per consumer task, plus the unified
	// command-text channel
	bufNav       *channel.Bounded[truck.Sample]
	bufLogic     *channel.Bounded[truck.Sample]
	bufFaults    *channel.Bounded[truck.Sample]
	bufCollector *channel.Bounded[truck.Sample]
	bufCommands  *channel.Bounded[string]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTruckApp builds and wires the application. Configuration errors are
// returned; transport failures are logged and degrade to disconnected
// operation.
func NewTruckApp(opts *Options) (*TruckApp, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		cancel()
		return nil, err
	}

	app := &TruckApp{
		log: NewLeveledLogger(
			log.New(log.Writer(), fmt.Sprintf("truck%d: ", opts.TruckID), log.LstdFlags),
			opts.LogLevel),
		cfg:    cfg,
		opts:   opts,
		topics: TopicsFor(opts.TruckID),
		state:  truck.NewState(),
		ctx:    ctx,
		cancel: cancel,
	}

	for _, buf := range []**channel.Bounded[truck.Sample]{
		&app.bufNav, &app.bufLogic, &app.bufFaults, &app.bufCollector,
	} {
		b, err := channel.New[truck.Sample](cfg.ChannelCapacity)
		if err != nil {
			cancel()
			return nil, err
		}
		*buf = b
	}
	app.bufCommands, err = channel.New[string](cfg.ChannelCapacity)
	if err != nil {
		cancel()
		return nil, err
	}

	app.dlog, err = truck.OpenDataLog(opts.LogDir, opts.TruckID)
	if err != nil {
		cancel()
		return nil, err
	}
	app.log.Info("Data log open in %s", opts.LogDir)

	clientID := fmt.Sprintf("caminhao%d_go", opts.TruckID)
	app.bus = NewBus(app.log, opts.BrokerAddr, opts.BrokerPort, clientID)

	// inbound topics
	app.bus.SubscribeTopic(app.topics.Commands)
	app.bus.SubscribeTopic(app.topics.Setpoints)
	app.bus.SubscribeTopic(app.topics.FaultInject)
	app.bus.SubscribeTopic(app.topics.Route)
	app.bus.SubscribeTopic(app.topics.Position) // self-loop for route progress

	app.mirror = NewMirror(ctx, app.log, opts)

	if opts.RoutePath != "" {
		if _, err := os.Stat(opts.RoutePath); err == nil {
			route, err := truck.LoadRouteFile(opts.RoutePath)
			if err != nil {
				app.log.Error("Failed to load route: %v", err)
			} else {
				app.route = route
				app.log.Info("Route loaded: %d waypoints from %s", route.Len(), opts.RoutePath)
			}
		} else {
			app.log.Info("Route file %s not found, continuing without a route", opts.RoutePath)
		}
	}

	return app, nil
}

// Start launches the task goroutines.
func (app *TruckApp) Start() {
	app.log.Info("Starting tasks...")
	tasks := []func(){
		app.sensorTask,
		app.commandTask,
		app.faultMonitorTask,
		app.navigationTask,
		app.collectorTask,
		app.routeManagerTask,
	}
	for _, task := range tasks {
		task := task
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			task()
		}()
	}
	app.log.Info("All tasks started")
}

// Destroy signals shutdown, waits for the tasks and releases resources.
func (app *TruckApp) Destroy() {
	app.log.Info("Shutting down truck application...")
	app.cancel()

	// release any producer blocked on a full channel
	for _, buf := range []*channel.Bounded[truck.Sample]{
		app.bufNav, app.bufLogic, app.bufFaults, app.bufCollector,
	} {
		buf.Clear()
	}
	app.bufCommands.Clear()

	app.wg.Wait()

	if app.mirror != nil {
		app.mirror.Close()
	}
	if app.dlog != nil {
		app.dlog.Close()
	}
	if app.bus != nil {
		app.bus.Disconnect()
	}
	app.log.Info("Truck application shutdown complete")
}

// sleep pauses for d or until shutdown, whichever comes first.
func (app *TruckApp) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-app.ctx.Done():
	case <-t.C:
	}
}

// running reports whether the stop signal has not fired yet. Every task
// loop checks it once per iteration.
func (app *TruckApp) running() bool {
	return app.ctx.Err() == nil
}

func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
