package contracts

import (
	"context"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
)

type ReferralUsecase interface {
	Create(ctx context.Context, request *requests.CreateReferralRequest) (*responses.ReferralCreated, error)
	FindByID(ctx context.Context, referralID string) (*responses.Referral, error)
	FindByPatientID(ctx context.Context, patientID string) ([]responses.Referral, error)
}

type ReferralRepository interface {
	Insert(ctx context.Context, referral *models.Referral) (string, error)
	FindByID(ctx context.Context, referralID string) (*models.Referral, error)
	FindByPatientID(ctx context.Context, patientID string) ([]models.Referral, error)
	UpdateFhirServiceRequestID(ctx context.Context, referralID, serviceRequestID string) error
}

type LabUsecase interface {
	PlaceOrder(ctx context.Context, request *requests.PlaceLabOrderRequest) (*responses.OrderPlaced, error)
	Results(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error)
}

type ImagingUsecase interface {
	PlaceOrder(ctx context.Context, request *requests.PlaceImagingOrderRequest) (*responses.OrderPlaced, error)
	Results(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error)
}
