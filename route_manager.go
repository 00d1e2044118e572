package main

import (
	"fmt"
	"math"
	"time"

	"truck-service/truck"
)

// routeManagerTask walks the loaded route, feeding one waypoint at a time to
// the controller as a setpoint. It listens to the truck's own position topic
// to detect waypoint arrival and to the route topic for replacement routes.
func (app *TruckApp) routeManagerTask() {
	interval := time.Duration(app.cfg.RouteIntervalMs) * time.Millisecond
	reach := app.cfg.RouteReachDist

	route := app.route
	index := 0
	var routeText string

	if route != nil && route.Len() > 0 {
		routeText = route.Encode()
		app.bus.Publish(app.topics.Route, routeText)
		app.publishWaypoint(route.Waypoints[0])
		app.log.Info("Route manager running with %d waypoints", route.Len())
	} else {
		app.log.Debug("Route manager running without a route")
	}

	for app.running() {
		if payload, ok := app.bus.TryPopMessage(app.topics.Route); ok && payload != routeText {
			next := truck.ParseRouteText(payload)
			if next.Len() > 0 {
				route = next
				index = 0
				routeText = route.Encode()
				app.bus.Publish(app.topics.Route, routeText)
				app.publishWaypoint(route.Waypoints[0])
				app.log.Info("Route replaced: %d waypoints", route.Len())
			}
		}

		if route == nil || route.Len() == 0 {
			app.sleep(interval)
			continue
		}

		wp := route.Waypoints[index]

		if payload, ok := app.bus.TryPopMessage(app.topics.Position); ok {
			x, okX := truck.ExtractIntArg(payload, "x")
			y, okY := truck.ExtractIntArg(payload, "y")
			if okX && okY {
				dist := math.Hypot(float64(x)-wp.X, float64(y)-wp.Y)
				if dist <= reach && index < route.Len()-1 {
					index++
					wp = route.Waypoints[index]
					app.log.Info("Waypoint reached, advancing to %d of %d", index+1, route.Len())
				}
			}
		}

		app.publishWaypoint(wp)
		app.sleep(interval)
	}
	app.log.Debug("Route manager stopped")
}

func (app *TruckApp) publishWaypoint(wp truck.Waypoint) {
	app.bus.Publish(app.topics.Setpoints,
		fmt.Sprintf("x=%d,y=%d", int(math.Round(wp.X)), int(math.Round(wp.Y))))
}
