package domain

import "math"

// compassSectors are the eight 45°-wide sectors, centered on multiples of 45°.
var compassSectors = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Wind converts orthogonal wind components (u eastward, v northward, m/s) into
// speed and meteorological direction: the bearing the wind blows FROM,
// clockwise from true north, in [0, 360).
//
// Pure and total for finite inputs. The calm case u = v = 0 falls out of the
// formula as direction 180° (atan2(-0, -0) is -π under IEEE 754) and is kept
// that way rather than special-cased, matching the reference tooling.
func Wind(u, v float64) (speed, direction float64) {
	speed = math.Sqrt(u*u + v*v)
	direction = math.Atan2(-u, -v) * 180 / math.Pi
	if direction < 0 {
		direction += 360
	}
	return speed, direction
}

// Compass classifies a direction in degrees into one of the eight sectors.
// Boundaries sit at odd multiples of 22.5°, with a boundary value belonging to
// the sector it opens: 22.5° is NE, not N. The N sector wraps, spanning
// [337.5, 360) and [0, 22.5).
func Compass(direction float64) string {
	d := math.Mod(direction, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+22.5)/45)) % 8
	return compassSectors[idx]
}

// TowardBearing converts a meteorological "from" direction into the bearing
// the wind blows toward. Display only — wind barbs point where the air goes.
func TowardBearing(direction float64) float64 {
	return math.Mod(direction+180, 360)
}
