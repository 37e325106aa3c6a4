package documents

import (
	"context"
	"emr-service/internal/app/config"
	"emr-service/internal/app/contracts"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/fhir_dto"
	"emr-service/internal/pkg/utils"
	"io"
	"time"

	"go.uber.org/zap"
)

type documentUsecase struct {
	DocumentRepository          contracts.DocumentRepository
	StorageService              contracts.StorageService
	ReferenceLinker             contracts.ReferenceLinker
	DocumentReferenceFhirClient contracts.DocumentReferenceFhirClient
	EventPublisher              contracts.EventPublisher
	InternalConfig              *config.InternalConfig
	Log                         *zap.Logger
}

func NewDocumentUsecase(
	documentRepository contracts.DocumentRepository,
	storageService contracts.StorageService,
	referenceLinker contracts.ReferenceLinker,
	documentReferenceFhirClient contracts.DocumentReferenceFhirClient,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.DocumentUsecase {
	return &documentUsecase{
		DocumentRepository:          documentRepository,
		StorageService:              storageService,
		ReferenceLinker:             referenceLinker,
		DocumentReferenceFhirClient: documentReferenceFhirClient,
		EventPublisher:              eventPublisher,
		InternalConfig:              internalConfig,
		Log:                         logger,
	}
}

// Upload streams the binary to object storage first, then creates the
// DocumentReference citing the patient, then the operational record. The
// binary is the referent, so it must exist before anything points at it.
func (uc *documentUsecase) Upload(ctx context.Context, request *requests.UploadDocumentRequest, file io.Reader, filename string, size int64, contentType string) (*responses.Document, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("documentUsecase.Upload called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	subject, err := uc.ReferenceLinker.EnsurePatient(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}

	maxSize := int64(uc.InternalConfig.Minio.MaxUploadSizeInMB) << 20
	if maxSize > 0 && size > maxSize {
		return nil, exceptions.ErrDocumentTooLarge(uc.InternalConfig.Minio.MaxUploadSizeInMB)
	}

	storagePath := utils.GenerateStoragePath(request.PatientID, filename)
	if err := uc.StorageService.Upload(ctx, storagePath, file, size, contentType); err != nil {
		return nil, err
	}

	// Only the stable storage path is persisted; presigned URLs expire, so
	// they are minted per response, never stored.
	now := time.Now().UTC()
	document := &models.Document{
		PatientID:   request.PatientID,
		Title:       request.Title,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
	}

	documentReference, err := utils.MapDocumentReferenceToFhir(document, subject.AsReference(), nil, now)
	if err != nil {
		return nil, err
	}

	var encounterRef *fhir_dto.ExternalReference
	if request.EncounterID != "" {
		encounter, err := uc.ReferenceLinker.EnsureEncounter(ctx, request.PatientID, request.EncounterID)
		if err != nil {
			return nil, err
		}
		encounterRef = &encounter
	}

	linked, err := uc.ReferenceLinker.LinkDocumentReference(ctx, documentReference, subject, encounterRef)
	if err != nil {
		return nil, err
	}
	document.FhirDocumentReferenceID = linked.ID

	documentID, err := uc.DocumentRepository.Insert(ctx, document)
	if err != nil {
		return nil, err
	}

	if err := uc.EventPublisher.Publish(ctx, constvars.EventDocumentAttached, map[string]string{
		"documentId":          documentID,
		"patientId":           request.PatientID,
		"documentReferenceId": linked.ID,
	}); err != nil {
		uc.Log.Warn("documentUsecase.Upload event publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("documentUsecase.Upload succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", documentID),
	)
	return toDocumentResponse(document, uc.signedURL(ctx, document.StoragePath)), nil
}

func (uc *documentUsecase) ListByPatient(ctx context.Context, patientID string) ([]responses.Document, error) {
	documents, err := uc.DocumentRepository.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	result := make([]responses.Document, 0, len(documents))
	for i := range documents {
		result = append(result, *toDocumentResponse(&documents[i], uc.signedURL(ctx, documents[i].StoragePath)))
	}
	return result, nil
}

// signedURL mints a download URL with the configured expiry. A signing failure
// degrades the response to metadata-only instead of failing the read.
func (uc *documentUsecase) signedURL(ctx context.Context, storagePath string) string {
	expiry := time.Duration(uc.InternalConfig.Minio.PresignedURLExpiryTimeInHour) * time.Hour
	url, err := uc.StorageService.PresignedURL(ctx, storagePath, expiry)
	if err != nil {
		uc.Log.Warn("documentUsecase presigned URL failed",
			zap.String("storage_path", storagePath),
			zap.Error(err),
		)
		return ""
	}
	return url
}

// Delete removes the operational record and the stored binary, and marks the
// DocumentReference entered-in-error rather than destroying repository
// history.
func (uc *documentUsecase) Delete(ctx context.Context, documentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("documentUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", documentID),
	)

	document, err := uc.DocumentRepository.FindByID(ctx, documentID)
	if err != nil {
		return err
	}
	if document == nil {
		return exceptions.ErrDocumentNotFound(nil)
	}

	if document.FhirDocumentReferenceID != "" {
		if err := uc.DocumentReferenceFhirClient.UpdateDocumentReferenceStatus(ctx, document.FhirDocumentReferenceID, constvars.FhirDocumentReferenceStatusEnteredInError); err != nil {
			return err
		}
	}
	if err := uc.StorageService.Remove(ctx, document.StoragePath); err != nil {
		return err
	}
	return uc.DocumentRepository.Delete(ctx, documentID)
}

func toDocumentResponse(document *models.Document, url string) *responses.Document {
	return &responses.Document{
		ID:                  document.ID,
		PatientID:           document.PatientID,
		Title:               document.Title,
		URL:                 url,
		ContentType:         document.ContentType,
		Size:                document.Size,
		DocumentReferenceID: document.FhirDocumentReferenceID,
	}
}
