package truck

import "math"

// ControlConfig holds the navigation controller gains and limits.
type ControlConfig struct {
	KpAng float64 `yaml:"kp_ang"` // steering P gain
	KpV   float64 `yaml:"kp_v"`   // speed P gain
	KiV   float64 `yaml:"ki_v"`   // speed I gain
	Ts    float64 `yaml:"ts"`     // control period, seconds

	IntMin float64 `yaml:"int_min"` // anti-windup clamp
	IntMax float64 `yaml:"int_max"`

	SpeedCap  float64 `yaml:"speed_cap"`  // desired-speed ceiling
	SpeedGain float64 `yaml:"speed_gain"` // desired speed per unit distance

	// integral seed factor applied to the current throttle when entering
	// automatic mode (bumpless transfer)
	BumplessFactor float64 `yaml:"bumpless_factor"`
}

// DefaultControlConfig returns the tuned gains.
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		KpAng:          1.1,
		KpV:            1.0,
		KiV:            0.12,
		Ts:             0.1,
		IntMin:         -200.0,
		IntMax:         200.0,
		SpeedCap:       80.0,
		SpeedGain:      0.4,
		BumplessFactor: 0.1,
	}
}

// NavController computes actuator outputs in automatic mode: a proportional
// steering controller producing an absolute heading command, and an
// anti-windup PI speed controller producing the throttle.
type NavController struct {
	cfg ControlConfig

	targetX int
	targetY int

	integral float64
	enabled  bool

	lastSample Sample
	haveLast   bool
	estSpeed   float64 // units/s, from displacement between samples
}

// NewNavController creates a controller aimed at the given initial target.
func NewNavController(cfg ControlConfig, targetX, targetY int) *NavController {
	return &NavController{cfg: cfg, targetX: targetX, targetY: targetY}
}

// SetTargetX and SetTargetY update the target coordinates independently,
// matching the independent x/y extraction of the setpoint grammar.
func (c *NavController) SetTargetX(x int) { c.targetX = x }
func (c *NavController) SetTargetY(y int) { c.targetY = y }

// Target returns the current target position.
func (c *NavController) Target() (int, int) { return c.targetX, c.targetY }

// Enabled reports whether the controller has been initialized since the
// last Disable.
func (c *NavController) Enabled() bool { return c.enabled }

// Disable marks the controller uninitialized so the next EnsureEnabled
// performs a bumpless re-initialization.
func (c *NavController) Disable() { c.enabled = false }

// EnsureEnabled seeds the speed integral from the current throttle output
// on the first automatic cycle after a mode switch, avoiding a step
// discontinuity in the command (bumpless transfer).
func (c *NavController) EnsureEnabled(currentThrottle int) {
	if !c.enabled {
		c.integral = float64(currentThrottle) * c.cfg.BumplessFactor
		c.enabled = true
	}
}

// Observe feeds a filtered sample into the speed estimator. Speed is the
// displacement between the two most recent distinct samples divided by
// their timestamp difference.
func (c *NavController) Observe(s Sample) {
	if c.haveLast && s.TimestampMs != c.lastSample.TimestampMs {
		dt := float64(s.TimestampMs-c.lastSample.TimestampMs) / 1000.0
		if dt > 0.0001 {
			dx := float64(s.PosX - c.lastSample.PosX)
			dy := float64(s.PosY - c.lastSample.PosY)
			c.estSpeed = math.Hypot(dx, dy) / dt
		}
	}
	c.lastSample = s
	c.haveLast = true
}

// LastKnown returns the most recently observed sample, if any.
func (c *NavController) LastKnown() (Sample, bool) {
	return c.lastSample, c.haveLast
}

// EstimatedSpeed returns the current speed estimate.
func (c *NavController) EstimatedSpeed() float64 { return c.estSpeed }

// TrackPosition moves the target to the vehicle's position. The manual
// branch calls this every cycle so a later switch to automatic starts with
// near-zero positional error.
func (c *NavController) TrackPosition(s Sample) {
	c.targetX = s.PosX
	c.targetY = s.PosY
}

// Step runs one control cycle against the given sample and returns the
// throttle and steering outputs, both clamped. The steering output is an
// absolute heading command in (-180, 180], not a turn rate.
func (c *NavController) Step(s Sample) (throttle, steering int) {
	dx := c.targetX - s.PosX
	dy := c.targetY - s.PosY
	dist := math.Hypot(float64(dx), float64(dy))

	// Steering (P). Near the target, hold the current heading to avoid
	// chatter from a degenerate atan2.
	desired := float64(s.Heading)
	if dist > 1.0 {
		desired = Norm360(math.Atan2(float64(dy), float64(dx)) * 180.0 / math.Pi)
	}
	angErr := Wrap180(desired - float64(s.Heading))
	outDir := s.Heading + int(math.Round(c.cfg.KpAng*angErr))
	for outDir > 180 {
		outDir -= 360
	}
	for outDir < -180 {
		outDir += 360
	}

	// Speed (PI with anti-windup hard clamping).
	desiredSpeed := math.Min(c.cfg.SpeedCap, dist*c.cfg.SpeedGain)
	errV := desiredSpeed - c.estSpeed
	c.integral = clampFloat(c.integral+errV*c.cfg.KiV*c.cfg.Ts, c.cfg.IntMin, c.cfg.IntMax)
	outAcc := int(math.Round(c.cfg.KpV*errV + c.integral))

	return clampInt(outAcc, ThrottleMin, ThrottleMax), outDir
}
