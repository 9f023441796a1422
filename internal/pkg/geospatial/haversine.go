package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Interpolate returns the point a fraction t (0..1) of the way from point 1
// to point 2. Linear in lat/lng, good enough for city-scale segments.
func Interpolate(lat1, lng1, lat2, lng2, t float64) (lat, lng float64) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return lat1 + (lat2-lat1)*t, lng1 + (lng2-lng1)*t
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
