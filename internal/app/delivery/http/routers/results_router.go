package routers

import (
	"emr-service/internal/app/services/core/results"

	"github.com/go-chi/chi/v5"
)

func attachResultsRoutes(router chi.Router, resultsController *results.ResultsController) {
	router.Get("/", resultsController.GetResults)
}
