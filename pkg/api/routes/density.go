package routes

import (
	"fmt"
	"strconv"

	"github.com/geotracker/geotracker/pkg/config"
	"github.com/gofiber/fiber/v2"
)

// displayDensity reads the optional density query parameter, bounded by config.MaxDisplayDensity
func displayDensity(c *fiber.Ctx, fallback float64) (float64, error) {
	densityQuery := c.Query("density")
	if densityQuery == "" {
		return fallback, nil
	}

	density, err := strconv.ParseFloat(densityQuery, 64)
	if err != nil || density <= 0 || density > config.MaxDisplayDensity {
		return 0, fmt.Errorf("density must be a number in (0, %v]", config.MaxDisplayDensity)
	}

	return density, nil
}
