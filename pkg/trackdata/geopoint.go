package trackdata

type GeoPoint struct {
	Latitude  float64 `json:"lat" groups:"basic"`
	Longitude float64 `json:"lon" groups:"basic"`
}

func GeoPointsFromLocations(locations []LocationSample) []GeoPoint {
	points := make([]GeoPoint, 0, len(locations))

	for _, location := range locations {
		points = append(points, GeoPoint{Latitude: location.Latitude, Longitude: location.Longitude})
	}

	return points
}
