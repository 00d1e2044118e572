package truck

import "math"

// KinematicsConfig holds the parameters of the first-order vehicle model.
type KinematicsConfig struct {
	AccelScale  float64 `yaml:"accel_scale"`   // throttle % -> units/s^2
	HeadingGain float64 `yaml:"heading_gain"`  // 1/s toward the steering command
	MaxTurnRate float64 `yaml:"max_turn_rate"` // deg/s
	MaxVel      float64 `yaml:"max_vel"`
	MinVel      float64 `yaml:"min_vel"`
	WorldMax    float64 `yaml:"world_max"` // positions clamped to [0, WorldMax]
}

// DefaultKinematicsConfig returns the tuned simulation parameters.
func DefaultKinematicsConfig() KinematicsConfig {
	return KinematicsConfig{
		AccelScale:  0.6,
		HeadingGain: 1.8,
		MaxTurnRate: 90.0,
		MaxVel:      160.0,
		MinVel:      -30.0,
		WorldMax:    1000.0,
	}
}

// Kinematics is a simplified unicycle-like vehicle model. It is a
// first-order approximation used only to exercise the control loop, not a
// physically accurate dynamics model.
type Kinematics struct {
	cfg KinematicsConfig

	PosX     float64
	PosY     float64
	Heading  float64 // degrees, kept in [0, 360)
	Velocity float64 // units/s
}

// NewKinematics creates a model at the given start position.
func NewKinematics(cfg KinematicsConfig, startX, startY float64) *Kinematics {
	return &Kinematics{cfg: cfg, PosX: startX, PosY: startY}
}

// Wrap180 normalizes an angle to (-180, 180].
func Wrap180(a float64) float64 {
	for a > 180.0 {
		a -= 360.0
	}
	for a <= -180.0 {
		a += 360.0
	}
	return a
}

// Norm360 normalizes an angle to [0, 360).
func Norm360(a float64) float64 {
	a = math.Mod(a, 360.0)
	if a < 0 {
		a += 360.0
	}
	return a
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Step advances the model by dt seconds under the given actuator commands
// (throttle -100..100, steering -180..180) and returns the applied
// acceleration, used by the sensor task for the temperature model.
//
// The steering command is an absolute heading target: the heading moves
// toward it at a rate proportional to the wrapped error, capped at
// MaxTurnRate.
func (k *Kinematics) Step(dt float64, throttle, steering int) float64 {
	accel := float64(throttle) * k.cfg.AccelScale
	k.Velocity = clampFloat(k.Velocity+accel*dt, k.cfg.MinVel, k.cfg.MaxVel)

	hdgErr := Wrap180(float64(steering) - k.Heading)
	hdgRate := clampFloat(hdgErr*k.cfg.HeadingGain, -k.cfg.MaxTurnRate, k.cfg.MaxTurnRate)
	k.Heading = Norm360(k.Heading + hdgRate*dt)

	rad := k.Heading * math.Pi / 180.0
	k.PosX = clampFloat(k.PosX+k.Velocity*math.Cos(rad)*dt, 0, k.cfg.WorldMax)
	k.PosY = clampFloat(k.PosY+k.Velocity*math.Sin(rad)*dt, 0, k.cfg.WorldMax)

	return accel
}
