package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"truck-service/truck"
)

func newTestApp(t *testing.T) *TruckApp {
	t.Helper()
	app, err := NewTruckApp(&Options{
		LogLevel:   LogLevelNone,
		TruckID:    9,
		BrokerAddr: "mock",
		LogDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	t.Cleanup(app.Destroy)
	return app
}

func TestManualModeTracksLastKnownPosition(t *testing.T) {
	app := newTestApp(t)
	ctrl := truck.NewNavController(app.cfg.Control, 500, 500)

	s := truck.Sample{TimestampMs: 1000, PosX: 100, PosY: 120, Temp: 70}
	app.bufNav.Push(s)
	app.navigationCycle(ctrl)

	if x, y := ctrl.Target(); x != 100 || y != 120 {
		t.Fatalf("target = (%d, %d), expected (100, 120)", x, y)
	}

	// target drifts away while the sensor stream stalls
	ctrl.SetTargetX(500)
	ctrl.SetTargetY(500)
	app.navigationCycle(ctrl)

	if x, y := ctrl.Target(); x != 100 || y != 120 {
		t.Errorf("target = (%d, %d), expected the last known position (100, 120)", x, y)
	}
}

func TestManualModeWithoutAnySampleKeepsTarget(t *testing.T) {
	app := newTestApp(t)
	ctrl := truck.NewNavController(app.cfg.Control, 500, 500)

	app.navigationCycle(ctrl)

	if x, y := ctrl.Target(); x != 500 || y != 500 {
		t.Errorf("target = (%d, %d), expected (500, 500) with nothing observed yet", x, y)
	}
}

func TestCollectorCycleReportsTimeout(t *testing.T) {
	app := newTestApp(t)

	if app.collectorCycle() {
		t.Fatal("cycle should report no work on an empty channel")
	}

	s := truck.Sample{TimestampMs: 2000, PosX: 10, PosY: 20, Heading: 30, Temp: 70}
	app.bufCollector.Push(s)
	if !app.collectorCycle() {
		t.Fatal("cycle should report work after a sample arrives")
	}

	data, err := os.ReadFile(filepath.Join(app.opts.LogDir, "truck_log.txt"))
	if err != nil {
		t.Fatalf("failed to read primary log: %v", err)
	}
	if !strings.Contains(string(data), "2000,9,MANUAL,10,20,OK") {
		t.Errorf("primary log missing the processed sample, got %q", string(data))
	}
}

func TestQuantizeHeadingStaysInRange(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{359.4, 359},
		{359.7, 0},
		{-0.2, 0},
		{180.5, 181},
		{720.3, 0},
	}
	for _, c := range cases {
		got := quantizeHeading(c.in)
		if got != c.want {
			t.Errorf("quantizeHeading(%v) = %d, expected %d", c.in, got, c.want)
		}
		if got < 0 || got > 359 {
			t.Errorf("quantizeHeading(%v) = %d, outside [0, 359]", c.in, got)
		}
	}
}
