package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/geotracker/geotracker/pkg/util"
)

const (
	PointTimeLayout    = "2006-01-02T15:04:05.000-07:00"
	MetadataTimeLayout = "2006-01-02T15:04:05Z"

	filenamePrefix = "GeoTracker"
	fileExtension  = ".gpx"
)

// BuildDocument creates one track with one segment holding a point per location sample.
// Point times come only from the aligned metric's elapsed millis, read as epoch millis in loc.
func BuildDocument(activity *trackdata.Activity, locations []trackdata.LocationSample, metrics []trackdata.MetricSample, loc *time.Location) (*Document, error) {
	calendarDate, err := activity.CalendarDate()
	if err != nil {
		return nil, err
	}

	if loc == nil {
		loc = time.Local
	}

	document := &Document{
		Version:                      Version,
		Creator:                      Creator,
		Namespace:                    Namespace,
		XSINamespace:                 XSINamespace,
		TrackPointExtensionNamespace: TrackPointExtensionNamespace,
		SchemaLocation:               schemaLocation,

		Metadata: Metadata{
			Name: activity.Name,
			Time: calendarDate.Format(MetadataTimeLayout),
		},
		Track: Track{
			Name: activity.Name,
			Segment: TrackSegment{
				Points: make([]TrackPoint, 0, len(locations)),
			},
		},
	}

	for i, location := range locations {
		document.Track.Segment.Points = append(document.Track.Segment.Points, newTrackPoint(location, trackdata.MetricAt(metrics, i), loc))
	}

	return document, nil
}

func newTrackPoint(location trackdata.LocationSample, metric *trackdata.MetricSample, loc *time.Location) TrackPoint {
	point := TrackPoint{
		Latitude:  Decimal(location.Latitude),
		Longitude: Decimal(location.Longitude),
		Elevation: Decimal(location.Altitude),
	}

	if metric == nil {
		return point
	}

	point.Time = time.UnixMilli(metric.ElapsedMillis).In(loc).Format(PointTimeLayout)

	if metric.Speed != nil {
		speed := Decimal(*metric.Speed)
		point.Speed = &speed
	}

	var extension TrackPointExtension
	if metric.HasHeartRate() {
		heartRate := *metric.HeartRate
		extension.HeartRate = &heartRate
	}
	if metric.Cadence != nil {
		cadence := *metric.Cadence
		extension.Cadence = &cadence
	}

	if extension.HeartRate != nil || extension.Cadence != nil {
		point.Extensions = &TrackPointExtensions{TrackPointExtension: extension}
	}

	return point
}

// WriteTo writes the XML declaration followed by the indented document
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode gpx document: %w", err)
	}

	headerWritten, err := io.WriteString(w, xml.Header)
	if err != nil {
		return int64(headerWritten), err
	}

	bodyWritten, err := w.Write(body)
	return int64(headerWritten + bodyWritten), err
}

// Filename gives GeoTracker_<name>_<date>.gpx with path-unfriendly characters swapped out
func Filename(name string, date string) string {
	return util.SanitiseFilename(fmt.Sprintf("%s_%s_%s%s", filenamePrefix, name, date, fileExtension))
}
