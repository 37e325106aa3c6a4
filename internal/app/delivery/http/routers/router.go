package routers

import (
	"emr-service/internal/app/config"
	"emr-service/internal/app/delivery/http/middlewares"
	"emr-service/internal/app/services/core/consultations"
	"emr-service/internal/app/services/core/documents"
	"emr-service/internal/app/services/core/fhiradmin"
	"emr-service/internal/app/services/core/imaging"
	"emr-service/internal/app/services/core/labs"
	"emr-service/internal/app/services/core/queue"
	"emr-service/internal/app/services/core/referrals"
	"emr-service/internal/app/services/core/results"
	"emr-service/internal/app/services/core/triage"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	queueController *queue.QueueController,
	triageController *triage.TriageController,
	labController *labs.LabController,
	imagingController *imaging.ImagingController,
	consultationController *consultations.ConsultationController,
	referralController *referrals.ReferralController,
	resultsController *results.ResultsController,
	documentController *documents.DocumentController,
	fhirAdminController *fhiradmin.FhirAdminController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Use(middlewares.RequestID)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/queue", func(r chi.Router) {
				attachQueueRoutes(r, queueController)
			})

			r.Route("/triage", func(r chi.Router) {
				attachTriageRoutes(r, triageController)
			})

			r.Route("/labs", func(r chi.Router) {
				attachLabRoutes(r, labController)
			})

			r.Route("/imaging", func(r chi.Router) {
				attachImagingRoutes(r, imagingController)
			})

			r.Route("/consultations", func(r chi.Router) {
				attachConsultationRoutes(r, consultationController)
			})

			r.Route("/referrals", func(r chi.Router) {
				attachReferralRoutes(r, referralController)
			})

			r.Route("/results", func(r chi.Router) {
				attachResultsRoutes(r, resultsController)
			})

			r.Route("/documents", func(r chi.Router) {
				attachDocumentRoutes(r, documentController)
			})

			r.Route("/fhir", func(r chi.Router) {
				attachFhirAdminRoutes(r, middlewares, fhirAdminController)
			})
		})
	})
}
