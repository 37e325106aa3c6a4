package routers

import (
	"emr-service/internal/app/delivery/http/middlewares"
	"emr-service/internal/app/services/core/fhiradmin"

	"github.com/go-chi/chi/v5"
)

func attachFhirAdminRoutes(router chi.Router, middlewares *middlewares.Middlewares, fhirAdminController *fhiradmin.FhirAdminController) {
	router.With(middlewares.RequireAPIKey).Post("/register-extensions", fhirAdminController.RegisterExtensions)
}
