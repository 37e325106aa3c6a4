package main

import (
	"context"
	"emr-service/internal/app/config"
	"emr-service/internal/app/delivery/http/middlewares"
	"emr-service/internal/app/delivery/http/routers"
	"emr-service/internal/app/drivers/database"
	"emr-service/internal/app/drivers/logger"
	"emr-service/internal/app/drivers/messaging"
	"emr-service/internal/app/drivers/storage"
	"emr-service/internal/app/services/core/consultations"
	"emr-service/internal/app/services/core/documents"
	"emr-service/internal/app/services/core/fhiradmin"
	"emr-service/internal/app/services/core/imaging"
	"emr-service/internal/app/services/core/labs"
	"emr-service/internal/app/services/core/orders"
	"emr-service/internal/app/services/core/patients"
	"emr-service/internal/app/services/core/queue"
	"emr-service/internal/app/services/core/referrals"
	"emr-service/internal/app/services/core/results"
	"emr-service/internal/app/services/core/triage"
	"emr-service/internal/app/services/fhir/conditions"
	"emr-service/internal/app/services/fhir/diagnostic_reports"
	"emr-service/internal/app/services/fhir/document_references"
	"emr-service/internal/app/services/fhir/encounters"
	"emr-service/internal/app/services/fhir/extensions"
	"emr-service/internal/app/services/fhir/httpclient"
	"emr-service/internal/app/services/fhir/imaging_studies"
	"emr-service/internal/app/services/fhir/linker"
	"emr-service/internal/app/services/fhir/medication_requests"
	fhirPatients "emr-service/internal/app/services/fhir/patients"
	"emr-service/internal/app/services/fhir/service_requests"
	"emr-service/internal/app/services/shared/events"
	sharedRedis "emr-service/internal/app/services/shared/redis"
	sharedStorage "emr-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	logger.InitLogrus(internalConfig)
	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logrus.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	minioClient := storage.NewMinio(driverConfig)

	bootstrap := config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	if driverConfig.RabbitMQ.Enabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}

	bootstrapTheApp(&bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests to finish..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrus.Printf("Error closing dependencies: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig
	requestTimeout := time.Second * time.Duration(internalConfig.App.RequestTimeoutInSeconds)

	// Shared services
	redisRepository := sharedRedis.NewRedisRepository(bootstrap.Redis)
	storageService := sharedStorage.NewMinioStorage(bootstrap.Minio, internalConfig.Minio.BucketName)

	eventPublisher := events.NewNopPublisher()
	if bootstrap.RabbitMQ != nil {
		publisher, err := events.NewEventPublisher(bootstrap.RabbitMQ, log)
		if err != nil {
			logrus.Fatalf("Failed to initialize event publisher: %v", err)
		}
		eventPublisher = publisher
	}

	// One rate-limited HTTP client shared by every FHIR resource client.
	fhirHTTPClient := httpclient.New(
		time.Second*time.Duration(internalConfig.FHIR.RequestTimeoutInSeconds),
		internalConfig.FHIR.MaxRequestsPerSecond,
	)
	fhirBaseURL := internalConfig.FHIR.BaseUrl

	patientFhirClient := fhirPatients.NewPatientFhirClient(fhirBaseURL, fhirHTTPClient, log)
	encounterFhirClient := encounters.NewEncounterFhirClient(fhirBaseURL, fhirHTTPClient, log)
	serviceRequestFhirClient := service_requests.NewServiceRequestFhirClient(fhirBaseURL, fhirHTTPClient, log)
	conditionFhirClient := conditions.NewConditionFhirClient(fhirBaseURL, fhirHTTPClient, log)
	medicationRequestFhirClient := medication_requests.NewMedicationRequestFhirClient(fhirBaseURL, fhirHTTPClient, log)
	documentReferenceFhirClient := document_references.NewDocumentReferenceFhirClient(fhirBaseURL, fhirHTTPClient, log)
	diagnosticReportFhirClient := diagnostic_reports.NewDiagnosticReportFhirClient(fhirBaseURL, fhirHTTPClient, log)
	imagingStudyFhirClient := imaging_studies.NewImagingStudyFhirClient(fhirBaseURL, fhirHTTPClient, log)
	structureDefinitionFhirClient := extensions.NewStructureDefinitionFhirClient(fhirBaseURL, fhirHTTPClient, log)

	// Repositories
	dbName := bootstrap.DriverConfig.MongoDB.DbName
	patientRepository := patients.NewPatientMongoRepository(bootstrap.MongoDB, dbName)
	consultationRepository := patients.NewConsultationMongoRepository(bootstrap.MongoDB, dbName)
	queueRepository := queue.NewQueueMongoRepository(bootstrap.MongoDB, dbName)
	triageRepository := triage.NewTriageMongoRepository(bootstrap.MongoDB, dbName)
	referralRepository := referrals.NewReferralMongoRepository(bootstrap.MongoDB, dbName)
	documentRepository := documents.NewDocumentMongoRepository(bootstrap.MongoDB, dbName)

	// Linker and orchestration
	referenceLinker := linker.NewReferenceLinker(
		patientRepository,
		patientFhirClient,
		encounterFhirClient,
		serviceRequestFhirClient,
		conditionFhirClient,
		medicationRequestFhirClient,
		documentReferenceFhirClient,
		log,
	)
	orderOrchestrator := orders.NewOrderOrchestrator(referenceLinker, eventPublisher, log)

	// Usecases
	queueUsecase := queue.NewQueueUsecase(queueRepository, patientRepository, consultationRepository, redisRepository, eventPublisher, log)
	triageUsecase := triage.NewTriageUsecase(triageRepository, queueRepository, redisRepository, eventPublisher, log)
	labUsecase := labs.NewLabUsecase(orderOrchestrator, diagnosticReportFhirClient, log)
	imagingUsecase := imaging.NewImagingUsecase(orderOrchestrator, imagingStudyFhirClient, log)
	consultationUsecase := consultations.NewConsultationUsecase(referenceLinker, conditionFhirClient, medicationRequestFhirClient, log)
	referralUsecase := referrals.NewReferralUsecase(referralRepository, orderOrchestrator, log)
	resultsGateway := results.NewResultsGateway(serviceRequestFhirClient, diagnosticReportFhirClient, imagingStudyFhirClient, log)
	documentUsecase := documents.NewDocumentUsecase(documentRepository, storageService, referenceLinker, documentReferenceFhirClient, eventPublisher, internalConfig, log)
	extensionRegistrar := fhiradmin.NewExtensionRegistrar(structureDefinitionFhirClient, redisRepository, log)

	// Cold-start registration: the repository must know our extensions before
	// any Encounter or DocumentReference carries them.
	registrationCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if registration, err := extensionRegistrar.EnsureRegistered(registrationCtx, fhiradmin.DefaultExtensionDescriptors()); err != nil {
		logrus.Fatalf("Failed to register FHIR extensions: %v", err)
	} else if !registration.AllPresent() {
		logrus.Printf("Extension registration incomplete at startup, %d failed; retry via POST /fhir/register-extensions", len(registration.Failed))
	}

	// Controllers
	queueController := queue.NewQueueController(log, queueUsecase, requestTimeout)
	triageController := triage.NewTriageController(log, triageUsecase, requestTimeout)
	labController := labs.NewLabController(log, labUsecase, requestTimeout)
	imagingController := imaging.NewImagingController(log, imagingUsecase, requestTimeout)
	consultationController := consultations.NewConsultationController(log, consultationUsecase, requestTimeout)
	referralController := referrals.NewReferralController(log, referralUsecase, requestTimeout)
	resultsController := results.NewResultsController(log, resultsGateway, requestTimeout)
	documentController := documents.NewDocumentController(log, documentUsecase, requestTimeout)
	fhirAdminController := fhiradmin.NewFhirAdminController(log, extensionRegistrar, requestTimeout)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewares.NewMiddlewares(log, internalConfig),
		queueController,
		triageController,
		labController,
		imagingController,
		consultationController,
		referralController,
		resultsController,
		documentController,
		fhirAdminController,
	)
}
