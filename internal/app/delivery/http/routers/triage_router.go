package routers

import (
	"emr-service/internal/app/services/core/triage"

	"github.com/go-chi/chi/v5"
)

func attachTriageRoutes(router chi.Router, triageController *triage.TriageController) {
	router.Post("/", triageController.RecordTriage)
}
