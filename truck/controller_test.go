package truck

import (
	"math"
	"testing"
)

func newTestController() *NavController {
	return NewNavController(DefaultControlConfig(), 500, 500)
}

func TestNavController_BumplessSeed(t *testing.T) {
	c := newTestController()

	// Manual mode left the throttle at 60; target tracked the position.
	s := Sample{TimestampMs: 100, PosX: 300, PosY: 300, Heading: 45}
	c.Observe(s)
	c.TrackPosition(s)

	c.EnsureEnabled(60)
	throttle, _ := c.Step(s)

	// Near-zero positional error and zero speed error: the first automatic
	// output is just the seeded integral, 60 * 0.1 = 6, no artificial jump
	// beyond the natural P+I contribution.
	cfg := DefaultControlConfig()
	seed := 60.0 * cfg.BumplessFactor
	if math.Abs(float64(throttle)-seed) > 1.0 {
		t.Errorf("first automatic throttle %d strays from the seeded integral %.1f", throttle, seed)
	}
}

func TestNavController_EnsureEnabledSeedsOnce(t *testing.T) {
	c := newTestController()
	c.EnsureEnabled(100)
	first := c.integral
	c.EnsureEnabled(0) // already enabled: must not reseed
	if c.integral != first {
		t.Error("EnsureEnabled must seed the integral only on the first call after Disable")
	}
	c.Disable()
	c.EnsureEnabled(0)
	if c.integral != 0 {
		t.Errorf("re-enable should reseed, got integral %f", c.integral)
	}
}

func TestNavController_ManualTracksPosition(t *testing.T) {
	c := newTestController()
	s := Sample{TimestampMs: 1, PosX: 123, PosY: 456}
	c.TrackPosition(s)
	x, y := c.Target()
	if x != 123 || y != 456 {
		t.Errorf("target should track the position, got (%d,%d)", x, y)
	}

	// Re-entering automatic right after manual: positional error is zero,
	// so the desired speed is zero.
	c.Observe(s)
	c.EnsureEnabled(0)
	throttle, _ := c.Step(s)
	if throttle != 0 {
		t.Errorf("zero positional error should yield zero throttle, got %d", throttle)
	}
}

func TestNavController_SteeringTowardTarget(t *testing.T) {
	c := newTestController()
	c.SetTargetX(100)
	c.SetTargetY(0)
	c.EnsureEnabled(0)

	// Heading 0, target due east: no correction needed.
	s := Sample{TimestampMs: 1, PosX: 0, PosY: 0, Heading: 0}
	c.Observe(s)
	_, steering := c.Step(s)
	if steering != 0 {
		t.Errorf("aligned heading should need no correction, got %d", steering)
	}

	// Target due north: desired heading 90, error 90, Kp 1.1 -> 99.
	c.SetTargetX(0)
	c.SetTargetY(100)
	_, steering = c.Step(s)
	if steering != 99 {
		t.Errorf("expected absolute heading command 99, got %d", steering)
	}
}

func TestNavController_SteeringHoldNearTarget(t *testing.T) {
	c := newTestController()
	c.SetTargetX(10)
	c.SetTargetY(10)
	c.EnsureEnabled(0)

	s := Sample{TimestampMs: 1, PosX: 10, PosY: 10, Heading: 77}
	c.Observe(s)
	_, steering := c.Step(s)
	if steering != 77 {
		t.Errorf("within the hold threshold the heading must not change, got %d", steering)
	}
}

func TestNavController_AntiWindupClamp(t *testing.T) {
	cfg := DefaultControlConfig()
	c := NewNavController(cfg, 100000, 0)
	c.EnsureEnabled(0)

	s := Sample{TimestampMs: 1, PosX: 0, PosY: 0, Heading: 0}
	c.Observe(s)
	for i := 0; i < 100000; i++ {
		c.Step(s)
	}
	if c.integral > cfg.IntMax || c.integral < cfg.IntMin {
		t.Errorf("integral %f escaped the anti-windup clamp [%f, %f]",
			c.integral, cfg.IntMin, cfg.IntMax)
	}
	throttle, _ := c.Step(s)
	if throttle != ThrottleMax {
		t.Errorf("saturated controller should output the throttle clamp, got %d", throttle)
	}
}

func TestNavController_SpeedEstimate(t *testing.T) {
	c := newTestController()
	c.Observe(Sample{TimestampMs: 1000, PosX: 0, PosY: 0})
	c.Observe(Sample{TimestampMs: 2000, PosX: 30, PosY: 40})
	// displacement 50 over 1 s
	if got := c.EstimatedSpeed(); math.Abs(got-50.0) > 1e-9 {
		t.Errorf("expected estimated speed 50, got %f", got)
	}

	// A repeated timestamp must not disturb the estimate.
	c.Observe(Sample{TimestampMs: 2000, PosX: 30, PosY: 40})
	if got := c.EstimatedSpeed(); math.Abs(got-50.0) > 1e-9 {
		t.Errorf("repeated timestamp changed the estimate to %f", got)
	}
}

func TestKinematics_VelocityClamp(t *testing.T) {
	cfg := DefaultKinematicsConfig()
	k := NewKinematics(cfg, 100, 100)
	for i := 0; i < 100; i++ {
		k.Step(0.05, 100, 0)
	}
	if k.Velocity > cfg.MaxVel {
		t.Errorf("velocity %f exceeds the clamp %f", k.Velocity, cfg.MaxVel)
	}
	for i := 0; i < 200; i++ {
		k.Step(0.05, -100, 0)
	}
	if k.Velocity < cfg.MinVel {
		t.Errorf("velocity %f below the clamp %f", k.Velocity, cfg.MinVel)
	}
}

func TestKinematics_WorldBounds(t *testing.T) {
	cfg := DefaultKinematicsConfig()
	k := NewKinematics(cfg, 999, 999)
	for i := 0; i < 500; i++ {
		k.Step(0.05, 100, 45) // drive northeast into the corner
	}
	if k.PosX > cfg.WorldMax || k.PosY > cfg.WorldMax {
		t.Errorf("position (%f,%f) escaped the world bound %f", k.PosX, k.PosY, cfg.WorldMax)
	}
}

func TestKinematics_HeadingNormalized(t *testing.T) {
	k := NewKinematics(DefaultKinematicsConfig(), 500, 500)
	for _, steering := range []int{180, -180, -90, 170} {
		for i := 0; i < 50; i++ {
			k.Step(0.05, 0, steering)
		}
		if k.Heading < 0 || k.Heading >= 360 {
			t.Fatalf("heading %f left [0,360) while steering toward %d", k.Heading, steering)
		}
	}
}

func TestWrap180(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{181, -179},
		{-180, 180},
		{359, -1},
		{-359, 1},
		{720, 0},
	}
	for _, tt := range tests {
		if got := Wrap180(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Wrap180(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
