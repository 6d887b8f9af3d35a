package geo

import "math"

const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance between two coordinates in meters.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLng := (lng2 - lng1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Geofence is a circular boundary around a reference coordinate.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// WithinBounds reports whether the supplied point lies inside the fence.
// Missing coordinates fail closed.
func (g Geofence) WithinBounds(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	return Haversine(*lat, *lng, g.Latitude, g.Longitude) <= g.RadiusMeters
}
