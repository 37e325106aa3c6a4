package routers

import (
	"emr-service/internal/app/services/core/imaging"

	"github.com/go-chi/chi/v5"
)

func attachImagingRoutes(router chi.Router, imagingController *imaging.ImagingController) {
	router.Post("/order", imagingController.PlaceOrder)
	router.Get("/results", imagingController.GetResults)
}
