package truck

// Filter smooths a raw sample stream with a fixed-window moving average.
// Position, heading and temperature are averaged (integer-truncated) over
// the most recent K samples; the timestamp and the fault flags are copied
// unfiltered from the newest raw sample. During warm-up the mean is taken
// over however many samples exist so far.
//
// Heading is averaged as a plain integer: the 0/360 wrap is NOT handled, so
// averaging 359 and 1 yields ~180. This matches the deployed behavior and
// is kept deliberately.
type Filter struct {
	order  int
	window []Sample
}

// NewFilter creates a moving-average filter of the given order. Orders
// below 1 are coerced to 1.
func NewFilter(order int) *Filter {
	if order < 1 {
		order = 1
	}
	return &Filter{order: order, window: make([]Sample, 0, order)}
}

// Order returns the effective window size.
func (f *Filter) Order() int { return f.order }

// Apply appends raw to the window, drops the oldest sample when the window
// exceeds the order and returns the filtered sample.
func (f *Filter) Apply(raw Sample) Sample {
	f.window = append(f.window, raw)
	if len(f.window) > f.order {
		f.window = f.window[1:]
	}

	n := int64(len(f.window))
	var sx, sy, sang, st int64
	for _, s := range f.window {
		sx += int64(s.PosX)
		sy += int64(s.PosY)
		sang += int64(s.Heading)
		st += int64(s.Temp)
	}

	return Sample{
		TimestampMs:     raw.TimestampMs,
		PosX:            int(sx / n),
		PosY:            int(sy / n),
		Heading:         int(sang / n),
		Temp:            int(st / n),
		ElectricalFault: raw.ElectricalFault,
		HydraulicFault:  raw.HydraulicFault,
	}
}
