package routers

import (
	"emr-service/internal/app/services/core/consultations"

	"github.com/go-chi/chi/v5"
)

func attachConsultationRoutes(router chi.Router, consultationController *consultations.ConsultationController) {
	router.Post("/diagnoses", consultationController.RecordDiagnosis)
	router.Get("/diagnoses", consultationController.GetDiagnoses)
	router.Post("/prescriptions", consultationController.Prescribe)
	router.Get("/prescriptions", consultationController.GetPrescriptions)
}
