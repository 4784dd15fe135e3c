package direction

import (
	"math"

	"github.com/geotracker/geotracker/pkg/trackdata"
)

// Mean earth radius (IUGG)
const EarthRadiusMeters = 6371008.8

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func toDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Distance is the great-circle distance in meters using the haversine formula
func Distance(a trackdata.GeoPoint, b trackdata.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearing is the compass direction from a towards b in degrees clockwise from true north, in [0,360)
func InitialBearing(a trackdata.GeoPoint, b trackdata.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return normaliseBearing(toDegrees(math.Atan2(y, x)))
}

func normaliseBearing(bearing float64) float64 {
	bearing = math.Mod(bearing, 360)
	if bearing < 0 {
		bearing += 360
	}

	// -0 and float rounding can land exactly on 360
	if bearing >= 360 {
		bearing = 0
	}

	return bearing
}

// Midpoint averages latitude and longitude. Only valid for short segments that do not cross the antimeridian.
func Midpoint(a trackdata.GeoPoint, b trackdata.GeoPoint) trackdata.GeoPoint {
	return trackdata.GeoPoint{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}
