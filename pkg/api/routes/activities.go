package routes

import (
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/geotracker/geotracker/pkg/consumer"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/direction"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

type Activities struct {
	Store          database.Store
	ExportQueue    rmq.Queue
	DisplayDensity float64
}

func ActivitiesRouter(router fiber.Router, activities *Activities) {
	router.Get("/:identifier", activities.getActivity)
	router.Post("/:identifier/export", activities.exportActivity)
	router.Get("/:identifier/markers", activities.getActivityMarkers)
}

func (a *Activities) lookupActivity(c *fiber.Ctx) (*trackdata.Activity, error) {
	identifier := c.Params("identifier")

	activity, err := a.Store.GetActivity(c.UserContext(), identifier)
	if errors.Is(err, database.ErrNotFound) {
		c.Status(fiber.StatusNotFound)
		return nil, c.JSON(fiber.Map{
			"error": "Could not find Activity matching Activity Identifier",
		})
	} else if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return nil, c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return activity, nil
}

func (a *Activities) getActivity(c *fiber.Ctx) error {
	activity, err := a.lookupActivity(c)
	if activity == nil {
		return err
	}

	activityReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, activity)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Activity",
		})
	}

	return c.JSON(activityReduced)
}

func (a *Activities) exportActivity(c *fiber.Ctx) error {
	activity, err := a.lookupActivity(c)
	if activity == nil {
		return err
	}

	request := consumer.ExportRequest{
		ActivityID: activity.PrimaryIdentifier,
		TargetUser: c.Query("target_user"),
	}
	if err := consumer.EnqueueExport(a.ExportQueue, request); err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not queue export",
		})
	}

	c.Status(fiber.StatusAccepted)
	return c.JSON(fiber.Map{
		"activity": activity.PrimaryIdentifier,
		"status":   "queued",
	})
}

func (a *Activities) getActivityMarkers(c *fiber.Ctx) error {
	density, err := displayDensity(c, a.DisplayDensity)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	activity, err := a.lookupActivity(c)
	if activity == nil {
		return err
	}

	locations, err := a.Store.GetLocations(c.UserContext(), activity.PrimaryIdentifier)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var overlays direction.OverlayCollection
	markers := direction.NewSampler().Annotate(&overlays, trackdata.GeoPointsFromLocations(locations), density)
	if markers == nil {
		markers = []direction.Marker{}
	}

	markersReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, markers)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Markers",
		})
	}

	return c.JSON(fiber.Map{
		"activity": activity.PrimaryIdentifier,
		"markers":  markersReduced,
		"overlays": len(overlays.Overlays()),
	})
}
