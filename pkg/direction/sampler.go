package direction

import "github.com/geotracker/geotracker/pkg/trackdata"

const DefaultThresholdMeters = 1000.0

// Absorbs haversine rounding so segments that sum to the threshold on paper still fire
const thresholdToleranceMeters = 1e-6

type Marker struct {
	Position trackdata.GeoPoint `json:"position" groups:"basic"`
	Heading  float64            `json:"heading" groups:"basic"`

	Glyph *Glyph `json:"-"`
}

type Sampler struct {
	ThresholdMeters float64
}

func NewSampler() *Sampler {
	return &Sampler{ThresholdMeters: DefaultThresholdMeters}
}

// Sample walks consecutive pairs and emits a marker at the midpoint of the segment on which the
// distance since the previous marker reaches the threshold. Fewer than 2 points gives no markers.
func (s *Sampler) Sample(points []trackdata.GeoPoint) []Marker {
	if len(points) < 2 {
		return nil
	}

	threshold := s.ThresholdMeters
	if threshold <= 0 {
		threshold = DefaultThresholdMeters
	}

	var markers []Marker
	accumulated := 0.0

	for i := 1; i < len(points); i++ {
		start := points[i-1]
		end := points[i]

		accumulated += Distance(start, end)

		if accumulated >= threshold-thresholdToleranceMeters {
			markers = append(markers, Marker{
				Position: Midpoint(start, end),
				Heading:  InitialBearing(start, end),
			})

			accumulated = 0
		}
	}

	return markers
}
