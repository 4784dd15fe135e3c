package direction

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/geotracker/geotracker/pkg/config"
)

// Logical edge length before display density scaling
const GlyphSizeDP = 24

var (
	glyphFillColor    = color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}
	glyphOutlineColor = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xFF}
)

// Glyph is the chevron drawn for every marker, pointing up before rotation
type Glyph struct {
	Image image.Image
	Size  int
}

func NewGlyph(density float64) *Glyph {
	if density <= 0 {
		density = 1
	}
	density = math.Min(density, config.MaxDisplayDensity)

	size := int(math.Round(GlyphSizeDP * density))
	if size < 1 {
		size = 1
	}
	s := float64(size)

	dc := gg.NewContext(size, size)

	dc.MoveTo(s*0.5, s*0.1)
	dc.LineTo(s*0.85, s*0.85)
	dc.LineTo(s*0.5, s*0.65)
	dc.LineTo(s*0.15, s*0.85)
	dc.ClosePath()

	dc.SetColor(glyphFillColor)
	dc.FillPreserve()

	dc.SetColor(glyphOutlineColor)
	dc.SetLineWidth(math.Max(1, s/12))
	dc.SetLineJoin(gg.LineJoinRound)
	dc.Stroke()

	return &Glyph{
		Image: dc.Image(),
		Size:  size,
	}
}

func (g *Glyph) EncodePNG(w io.Writer) error {
	return png.Encode(w, g.Image)
}
