package api

import (
	"github.com/adjust/rmq/v5"
	"github.com/geotracker/geotracker/pkg/api/routes"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/gofiber/fiber/v2"
)

type Server struct {
	Store          database.Store
	ExportQueue    rmq.Queue
	DisplayDensity float64
}

func (s *Server) App() *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.ActivitiesRouter(group.Group("/activities"), &routes.Activities{
		Store:          s.Store,
		ExportQueue:    s.ExportQueue,
		DisplayDensity: s.DisplayDensity,
	})
	routes.MarkersRouter(group.Group("/markers"), s.DisplayDensity)

	return webApp
}

func (s *Server) Listen(listen string) error {
	return s.App().Listen(listen)
}
