package gpx

import (
	"encoding/xml"
	"strconv"
)

const (
	Version = "1.1"
	Creator = "GeoTracker"

	Namespace                    = "http://www.topografix.com/GPX/1/1"
	XSINamespace                 = "http://www.w3.org/2001/XMLSchema-instance"
	TrackPointExtensionNamespace = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"

	schemaLocation = "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd " +
		"http://www.garmin.com/xmlschemas/TrackPointExtension/v1 http://www.garmin.com/xmlschemas/TrackPointExtensionv1.xsd"
)

type Document struct {
	XMLName xml.Name `xml:"gpx"`

	Version                      string `xml:"version,attr"`
	Creator                      string `xml:"creator,attr"`
	Namespace                    string `xml:"xmlns,attr"`
	XSINamespace                 string `xml:"xmlns:xsi,attr"`
	TrackPointExtensionNamespace string `xml:"xmlns:gpxtpx,attr"`
	SchemaLocation               string `xml:"xsi:schemaLocation,attr"`

	Metadata Metadata `xml:"metadata"`
	Track    Track    `xml:"trk"`
}

type Metadata struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type Track struct {
	Name    string       `xml:"name,omitempty"`
	Segment TrackSegment `xml:"trkseg"`
}

type TrackSegment struct {
	Points []TrackPoint `xml:"trkpt"`
}

// TrackPoint child order matters to consumers: ele, time, speed, extensions(hr, cad)
type TrackPoint struct {
	Latitude  Decimal `xml:"lat,attr"`
	Longitude Decimal `xml:"lon,attr"`

	Elevation Decimal  `xml:"ele"`
	Time      string   `xml:"time,omitempty"`
	Speed     *Decimal `xml:"speed,omitempty"`

	Extensions *TrackPointExtensions `xml:"extensions,omitempty"`
}

type TrackPointExtensions struct {
	TrackPointExtension TrackPointExtension `xml:"gpxtpx:TrackPointExtension"`
}

type TrackPointExtension struct {
	HeartRate *int `xml:"gpxtpx:hr,omitempty"`
	Cadence   *int `xml:"gpxtpx:cad,omitempty"`
}

// Decimal keeps full float precision without falling into exponent notation, which GPX readers reject
type Decimal float64

func (d Decimal) MarshalText() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(d), 'f', -1, 64), nil
}

func (d *Decimal) UnmarshalText(text []byte) error {
	parsed, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return err
	}

	*d = Decimal(parsed)
	return nil
}
