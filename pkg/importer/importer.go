// Package importer loads recorded GPX tracks into the activity store
package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/tkrajina/gpxgo/gpx"
)

const activityDateLayout = "2006:01:02"

var ErrNoTrackPoints = errors.New("gpx file has no track points")

type Recording struct {
	Activity  *trackdata.Activity
	Locations []trackdata.LocationSample
	Metrics   []trackdata.MetricSample
}

// FromGPX turns every track point into a location sample. Metric samples carry the point times
// and are only produced when every point has one, keeping the two sequences aligned.
func FromGPX(data []byte, identifier string) (*Recording, error) {
	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX data: %w", err)
	}

	recording := &Recording{
		Activity: &trackdata.Activity{
			PrimaryIdentifier: identifier,
			Name:              gpxFile.Name,
			CreationDateTime:  time.Now(),
		},
	}

	allTimed := true
	var firstTimestamp time.Time

	for _, track := range gpxFile.Tracks {
		if recording.Activity.Name == "" {
			recording.Activity.Name = track.Name
		}

		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				location := trackdata.LocationSample{Latitude: point.Latitude, Longitude: point.Longitude}
				if point.Elevation.NotNull() {
					location.Altitude = point.Elevation.Value()
				}
				recording.Locations = append(recording.Locations, location)

				if point.Timestamp.IsZero() {
					allTimed = false
					continue
				}
				if firstTimestamp.IsZero() {
					firstTimestamp = point.Timestamp
				}

				recording.Metrics = append(recording.Metrics, trackdata.MetricSample{ElapsedMillis: point.Timestamp.UnixMilli()})
			}
		}
	}

	if len(recording.Locations) == 0 {
		return nil, ErrNoTrackPoints
	}

	if !allTimed {
		recording.Metrics = nil
	}

	switch {
	case !firstTimestamp.IsZero():
		recording.Activity.Date = firstTimestamp.UTC().Format(activityDateLayout)
	case gpxFile.Time != nil && !gpxFile.Time.IsZero():
		recording.Activity.Date = gpxFile.Time.UTC().Format(activityDateLayout)
	default:
		recording.Activity.Date = recording.Activity.CreationDateTime.UTC().Format(activityDateLayout)
	}

	if recording.Activity.Name == "" {
		recording.Activity.Name = identifier
	}

	return recording, nil
}
