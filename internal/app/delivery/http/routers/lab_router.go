package routers

import (
	"emr-service/internal/app/services/core/labs"

	"github.com/go-chi/chi/v5"
)

func attachLabRoutes(router chi.Router, labController *labs.LabController) {
	router.Post("/order", labController.PlaceOrder)
	router.Get("/results", labController.GetResults)
}
