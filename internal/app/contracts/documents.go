package contracts

import (
	"context"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"io"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, request *requests.UploadDocumentRequest, file io.Reader, filename string, size int64, contentType string) (*responses.Document, error)
	ListByPatient(ctx context.Context, patientID string) ([]responses.Document, error)
	Delete(ctx context.Context, documentID string) error
}

type DocumentRepository interface {
	Insert(ctx context.Context, document *models.Document) (string, error)
	FindByID(ctx context.Context, documentID string) (*models.Document, error)
	FindByPatientID(ctx context.Context, patientID string) ([]models.Document, error)
	Delete(ctx context.Context, documentID string) error
}
