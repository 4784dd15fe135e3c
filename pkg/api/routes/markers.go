package routes

import (
	"bytes"

	"github.com/geotracker/geotracker/pkg/direction"
	"github.com/gofiber/fiber/v2"
)

func MarkersRouter(router fiber.Router, defaultDensity float64) {
	router.Get("/glyph.png", func(c *fiber.Ctx) error {
		return getGlyph(c, defaultDensity)
	})
}

func getGlyph(c *fiber.Ctx, defaultDensity float64) error {
	density, err := displayDensity(c, defaultDensity)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var buffer bytes.Buffer
	if err := direction.NewGlyph(density).EncodePNG(&buffer); err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buffer.Bytes())
}
