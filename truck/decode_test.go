package truck

import "testing"

func TestDecodeCommand_AutomaticOn(t *testing.T) {
	st := NewState()
	st.ApplyCommand(DecodeCommand("c_automatico on"))
	if !st.Status.Automatic.Load() {
		t.Error("c_automatico on should set automatic")
	}
	if !st.Command.WantAutomatic.Load() {
		t.Error("c_automatico on should raise the automatic request flag")
	}
}

func TestDecodeCommand_Manual(t *testing.T) {
	st := NewState()
	st.Status.Automatic.Store(true)
	st.ApplyCommand(DecodeCommand("c_man"))
	if st.Status.Automatic.Load() {
		t.Error("c_man should clear automatic")
	}
	if !st.Command.WantManual.Load() {
		t.Error("c_man should raise the manual request flag")
	}
}

func TestDecodeCommand_RearmClearsLatchedFault(t *testing.T) {
	st := NewState()
	st.Status.Faulted.Store(true)
	st.ApplyCommand(DecodeCommand("c_rearme"))
	if st.Status.Faulted.Load() {
		t.Error("rearm should clear the latched fault")
	}
}

func TestDecodeCommand_Toggles(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{"c_acelera on", true},
		{"c_acelera true", true},
		{"acelera 1", true},
		{"c_acelera off", false},
		{"c_acelera", false},
	}
	for _, tt := range tests {
		ch := DecodeCommand(tt.payload)
		if ch.Accelerate == nil {
			t.Errorf("%q: accelerate keyword not recognized", tt.payload)
			continue
		}
		if *ch.Accelerate != tt.want {
			t.Errorf("%q: expected accelerate=%v, got %v", tt.payload, tt.want, *ch.Accelerate)
		}
	}
}

func TestDecodeCommand_TurnToggles(t *testing.T) {
	ch := DecodeCommand("c_direita on")
	if ch.TurnRight == nil || !*ch.TurnRight {
		t.Error("c_direita on should set turn-right")
	}
	ch = DecodeCommand("c_esquerda off")
	if ch.TurnLeft == nil || *ch.TurnLeft {
		t.Error("c_esquerda off should clear turn-left")
	}
}

func TestDecodeCommand_UnknownTextIsEmpty(t *testing.T) {
	if ch := DecodeCommand("xyzzy"); !ch.Empty() {
		t.Errorf("unknown payload should decode to an empty change set, got %+v", ch)
	}
}

func TestExtractIntArg(t *testing.T) {
	tests := []struct {
		in   string
		key  string
		want int
		ok   bool
	}{
		{"x=123", "x", 123, true},
		{"x= 45,y=9", "x", 45, true},
		{"x= 45,y=9", "y", 9, true},
		{`{"x":-17}`, "x", -17, true},
		{"x=+8", "x", 8, true},
		{"x=", "x", 0, false},
		{"no coords here", "x", 0, false},
		{"x abc", "x", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractIntArg(tt.in, tt.key)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ExtractIntArg(%q, %q) = (%d, %v), want (%d, %v)",
				tt.in, tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestApplyFaultInjection(t *testing.T) {
	var ele, hid bool

	ApplyFaultInjection("eletrica=1", &ele, &hid)
	if !ele || hid {
		t.Errorf("eletrica=1: expected (true,false), got (%v,%v)", ele, hid)
	}

	ApplyFaultInjection("eletrica=0", &ele, &hid)
	if ele {
		t.Error("eletrica=0 should clear the electrical flag")
	}

	ApplyFaultInjection("hidraulica", &ele, &hid)
	if !hid {
		t.Error("hidraulica with no clear token should set the hydraulic flag")
	}

	ApplyFaultInjection("all", &ele, &hid)
	if !ele || !hid {
		t.Error("all should set both flags")
	}

	ApplyFaultInjection("clear all", &ele, &hid)
	if ele || hid {
		t.Error("clear all should clear both flags")
	}
}

func TestState_FaultLatch(t *testing.T) {
	st := NewState()
	st.Status.Faulted.Store(true)

	// Non-defect samples never clear the latch; only rearm does.
	for i := 0; i < 5; i++ {
		f := EvaluateFaults(Sample{Temp: 70})
		if f.Defect() {
			t.Fatal("sample should not be a defect")
		}
	}
	if !st.Status.Faulted.Load() {
		t.Error("fault latch must survive non-defect samples")
	}

	st.ApplyCommand(DecodeCommand("rearme"))
	if st.Status.Faulted.Load() {
		t.Error("rearm must clear the latch")
	}
}

func TestActuator_Clamping(t *testing.T) {
	st := NewState()
	st.Actuator.SetThrottle(250)
	if got := st.Actuator.Throttle(); got != 100 {
		t.Errorf("throttle should clamp to 100, got %d", got)
	}
	st.Actuator.SetThrottle(-250)
	if got := st.Actuator.Throttle(); got != -100 {
		t.Errorf("throttle should clamp to -100, got %d", got)
	}
	st.Actuator.SetSteering(999)
	if got := st.Actuator.Steering(); got != 180 {
		t.Errorf("steering should clamp to 180, got %d", got)
	}
	st.Actuator.SetSteering(-999)
	if got := st.Actuator.Steering(); got != -180 {
		t.Errorf("steering should clamp to -180, got %d", got)
	}
}
