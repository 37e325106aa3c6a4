package contracts

import (
	"context"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
)

type QueueUsecase interface {
	Enqueue(ctx context.Context, request *requests.AddToQueueRequest) (*responses.QueueEntry, error)
	Remove(ctx context.Context, patientID string) error
	UpdateStatus(ctx context.Context, patientID, status string) error
	List(ctx context.Context) ([]responses.QueueEntry, error)
}

type QueueRepository interface {
	Insert(ctx context.Context, entry *models.QueueEntry) (string, error)
	FindActiveByPatientID(ctx context.Context, patientID string) (*models.QueueEntry, error)
	FindLatestByPatientID(ctx context.Context, patientID string) (*models.QueueEntry, error)
	FindAllActive(ctx context.Context) ([]models.QueueEntry, error)
	UpdateStatus(ctx context.Context, patientID, status string) error
	UpdateTriageLevel(ctx context.Context, patientID string, triageLevel int, status string) error
	NextPosition(ctx context.Context) (int64, error)
}

type TriageUsecase interface {
	RecordTriage(ctx context.Context, request *requests.RecordTriageRequest) (*responses.TriageRecorded, error)
}

type TriageRepository interface {
	Insert(ctx context.Context, record *models.TriageRecord) (string, error)
	FindLatestByPatientID(ctx context.Context, patientID string) (*models.TriageRecord, error)
}
