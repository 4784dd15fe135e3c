package direction

import "github.com/geotracker/geotracker/pkg/trackdata"

// Overlay mirrors a map marker option set. Rotation is degrees clockwise from the glyph's up,
// measured in map space because the overlay is flat, so it equals the compass heading.
type Overlay struct {
	Position trackdata.GeoPoint
	Rotation float64

	AnchorU float64
	AnchorV float64

	Glyph *Glyph

	Flat              bool
	InfoWindowEnabled bool
}

type Surface interface {
	AddOverlay(overlay *Overlay)
}

// OverlayCollection is an ordered in-memory Surface
type OverlayCollection struct {
	overlays []*Overlay
}

func (c *OverlayCollection) AddOverlay(overlay *Overlay) {
	c.overlays = append(c.overlays, overlay)
}

func (c *OverlayCollection) Overlays() []*Overlay {
	return c.overlays
}

func (c *OverlayCollection) Clear() {
	c.overlays = nil
}

// Annotate samples the route and attaches one centred, flat overlay per marker.
// The glyph is rasterised once and shared by every overlay from this call.
func (s *Sampler) Annotate(surface Surface, points []trackdata.GeoPoint, density float64) []Marker {
	markers := s.Sample(points)
	if len(markers) == 0 {
		return nil
	}

	glyph := NewGlyph(density)

	for i := range markers {
		markers[i].Glyph = glyph

		surface.AddOverlay(&Overlay{
			Position:          markers[i].Position,
			Rotation:          markers[i].Heading,
			AnchorU:           0.5,
			AnchorV:           0.5,
			Glyph:             glyph,
			Flat:              true,
			InfoWindowEnabled: false,
		})
	}

	return markers
}
