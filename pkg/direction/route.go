package direction

import (
	"fmt"

	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/tkrajina/gpxgo/gpx"
)

// LoadRoute reads every track point of a GPX file, falling back to route points when there are no tracks
func LoadRoute(path string) ([]trackdata.GeoPoint, error) {
	gpxFile, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX file: %w", err)
	}

	return routeFromGPX(gpxFile), nil
}

func ParseRoute(data []byte) ([]trackdata.GeoPoint, error) {
	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX data: %w", err)
	}

	return routeFromGPX(gpxFile), nil
}

func routeFromGPX(gpxFile *gpx.GPX) []trackdata.GeoPoint {
	var points []trackdata.GeoPoint

	for _, track := range gpxFile.Tracks {
		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				points = append(points, trackdata.GeoPoint{Latitude: point.Latitude, Longitude: point.Longitude})
			}
		}
	}

	if len(points) == 0 {
		for _, route := range gpxFile.Routes {
			for _, point := range route.Points {
				points = append(points, trackdata.GeoPoint{Latitude: point.Latitude, Longitude: point.Longitude})
			}
		}
	}

	return points
}
