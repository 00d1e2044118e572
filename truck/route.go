package truck

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Waypoint is one target position on a route, with an optional cruise
// speed (0 when unspecified).
type Waypoint struct {
	X     float64
	Y     float64
	Speed float64
}

// Route is an ordered waypoint sequence consumed by the route manager as a
// stream of setpoints.
type Route struct {
	Waypoints []Waypoint
}

// ParseRouteText parses the `X Y [SPEED]` line format. Blank lines and
// lines starting with '#' are ignored; malformed lines are skipped.
func ParseRouteText(content string) *Route {
	r := &Route{}
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		speed := 0.0
		if len(fields) >= 3 {
			if s, err := strconv.ParseFloat(fields[2], 64); err == nil {
				speed = s
			}
		}
		r.Waypoints = append(r.Waypoints, Waypoint{X: x, Y: y, Speed: speed})
	}
	return r
}

// LoadRouteFile reads a route from a file in the text format.
func LoadRouteFile(path string) (*Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("route: read %s: %w", path, err)
	}
	return ParseRouteText(string(data)), nil
}

// Encode renders the route back into the text format, one waypoint per
// line.
func (r *Route) Encode() string {
	var b strings.Builder
	for i, wp := range r.Waypoints {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%g %g %g", wp.X, wp.Y, wp.Speed)
	}
	return b.String()
}

// SaveRouteFile writes the route to a file in the text format.
func (r *Route) SaveRouteFile(path string) error {
	if err := os.WriteFile(path, []byte(r.Encode()+"\n"), 0o644); err != nil {
		return fmt.Errorf("route: write %s: %w", path, err)
	}
	return nil
}

// Len returns the number of waypoints.
func (r *Route) Len() int { return len(r.Waypoints) }
