package player

import "math"

const (
	MaxLatitude = 85.0

	MinFOV     = 40.0
	MaxFOV     = 120.0
	DefaultFOV = 75.0

	// SphereRadius is the radius of the projection sphere; the camera sits at its centre.
	SphereRadius = 500.0

	dragDegreesPerPixel = 0.12
	wheelFOVPerDelta    = 0.02
)

var fovPresets = map[string]float64{
	"wide":   100,
	"normal": 75,
	"tele":   55,
}

// Vec3 is a point in scene space.
type Vec3 struct {
	X, Y, Z float64
}

// ViewAngle is the camera orientation in spherical mode. Latitude and FOV are
// kept inside their limits by every mutating method.
type ViewAngle struct {
	Longitude float64
	Latitude  float64
	FOV       float64
}

func defaultViewAngle() ViewAngle {
	return ViewAngle{FOV: DefaultFOV}
}

// pan ignores deltas that are not finite.
func (v *ViewAngle) pan(dLon, dLat float64) {
	if !finite(dLon) || !finite(dLat) {
		return
	}
	v.Longitude += dLon
	v.Latitude = clampLatitude(v.Latitude + dLat)
}

// setFOV clamps and stores the value. It reports false for NaN input, which
// leaves the current FOV untouched.
func (v *ViewAngle) setFOV(fov float64) bool {
	if math.IsNaN(fov) {
		return false
	}
	v.FOV = clamp(fov, MinFOV, MaxFOV)
	return true
}

func (v *ViewAngle) reset() {
	v.Longitude = 0
	v.Latitude = 0
	v.FOV = DefaultFOV
}

// Target returns the look-at point on the projection sphere.
func (v ViewAngle) Target() Vec3 {
	phi := degToRad(90 - clampLatitude(v.Latitude))
	theta := degToRad(v.Longitude)
	return Vec3{
		X: SphereRadius * math.Sin(phi) * math.Cos(theta),
		Y: SphereRadius * math.Cos(phi),
		Z: SphereRadius * math.Sin(phi) * math.Sin(theta),
	}
}

// lookAnchor is captured when a look drag starts on the canvas.
type lookAnchor struct {
	x, y     float64
	lon, lat float64
}

func (a lookAnchor) apply(v *ViewAngle, x, y float64) {
	dx := x - a.x
	dy := y - a.y
	v.Longitude = a.lon - dx*dragDegreesPerPixel
	v.Latitude = clampLatitude(a.lat + dy*dragDegreesPerPixel)
}

func clampLatitude(lat float64) float64 {
	if math.IsNaN(lat) {
		return 0
	}
	return clamp(lat, -MaxLatitude, MaxLatitude)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(n, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, n))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
