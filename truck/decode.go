package truck

import (
	"strconv"
	"strings"
)

// CommandChanges is the structured result of decoding one command payload.
// Toggle pointers are nil when the corresponding keyword was absent.
//
// Both command ingress points (the command task and the telemetry task)
// decode through this one function, so the two paths cannot drift.
type CommandChanges struct {
	Manual    bool
	Automatic bool
	Rearm     bool

	Accelerate *bool
	TurnRight  *bool
	TurnLeft   *bool
}

// Empty reports whether the payload matched no keyword at all.
func (c CommandChanges) Empty() bool {
	return !c.Manual && !c.Automatic && !c.Rearm &&
		c.Accelerate == nil && c.TurnRight == nil && c.TurnLeft == nil
}

// onToken reports whether the payload carries an "on" token ("on", "true"
// or "1"); its absence means off.
func onToken(low string) bool {
	return strings.Contains(low, "on") ||
		strings.Contains(low, "true") ||
		strings.Contains(low, "1")
}

// DecodeCommand matches the payload case-insensitively against the fixed
// keyword set and returns the resulting change set. Unknown text decodes to
// an empty change set; it is never an error.
func DecodeCommand(payload string) CommandChanges {
	low := strings.ToLower(payload)
	var ch CommandChanges

	if strings.Contains(low, "c_man") || strings.Contains(low, "man") {
		ch.Manual = true
	}
	if strings.Contains(low, "c_automatico") || strings.Contains(low, "auto") {
		ch.Automatic = true
	}
	if strings.Contains(low, "c_rearme") || strings.Contains(low, "rearme") {
		ch.Rearm = true
	}

	on := onToken(low)
	if strings.Contains(low, "c_acelera") || strings.Contains(low, "acelera") {
		v := on
		ch.Accelerate = &v
	}
	if strings.Contains(low, "c_direita") || strings.Contains(low, "direita") {
		v := on
		ch.TurnRight = &v
	}
	if strings.Contains(low, "c_esquerda") || strings.Contains(low, "esquerda") {
		v := on
		ch.TurnLeft = &v
	}
	return ch
}

// ApplyCommand applies a decoded change set to the shared state. When both
// manual and automatic keywords are present, automatic wins.
func (s *State) ApplyCommand(ch CommandChanges) {
	if ch.Manual {
		s.Command.WantManual.Store(true)
		s.Status.Automatic.Store(false)
	}
	if ch.Automatic {
		s.Command.WantAutomatic.Store(true)
		s.Status.Automatic.Store(true)
	}
	if ch.Rearm {
		s.Command.WantRearm.Store(true)
		s.Status.Faulted.Store(false)
	}
	if ch.Accelerate != nil {
		s.Command.WantAccelerate.Store(*ch.Accelerate)
	}
	if ch.TurnRight != nil {
		s.Command.WantTurnRight.Store(*ch.TurnRight)
	}
	if ch.TurnLeft != nil {
		s.Command.WantTurnLeft.Store(*ch.TurnLeft)
	}
}

// ExtractIntArg pulls an integer argument out of loosely formatted text.
// Accepted shapes: `key=123`, `key= 123`, `"key":123`. It reports false
// when the key or a parseable value is missing.
func ExtractIntArg(s, key string) (int, bool) {
	pos := strings.Index(s, key)
	if pos < 0 {
		return 0, false
	}
	rest := s[pos:]
	eq := strings.IndexByte(rest, '=')
	colon := strings.IndexByte(rest, ':')
	start := -1
	switch {
	case eq >= 0 && (colon < 0 || eq < colon):
		start = eq + 1
	case colon >= 0:
		start = colon + 1
	default:
		return 0, false
	}

	for start < len(rest) && (rest[start] == ' ' || rest[start] == '\t') {
		start++
	}
	i := start
	if i < len(rest) && (rest[i] == '-' || rest[i] == '+') {
		i++
	}
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimPrefix(rest[start:i], "+"))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ApplyFaultInjection interprets a fault-injection payload and updates the
// injected flags in place. Grammar: free text naming "eletrica" and/or
// "hidraulica" and/or "all"; a "0", "clear" or "false" token clears the
// named flag(s), anything else sets them.
func ApplyFaultInjection(payload string, electrical, hydraulic *bool) {
	low := strings.ToLower(payload)
	clear := strings.Contains(low, "0") ||
		strings.Contains(low, "clear") ||
		strings.Contains(low, "false")

	if strings.Contains(low, "eletrica") {
		*electrical = !clear
	}
	if strings.Contains(low, "hidraulica") {
		*hydraulic = !clear
	}
	if strings.Contains(low, "all") {
		*electrical = !clear
		*hydraulic = !clear
	}
}
