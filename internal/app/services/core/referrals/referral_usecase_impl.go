package referrals

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"fmt"

	"go.uber.org/zap"
)

type referralUsecase struct {
	ReferralRepository contracts.ReferralRepository
	OrderOrchestrator  contracts.OrderOrchestrator
	Log                *zap.Logger
}

func NewReferralUsecase(
	referralRepository contracts.ReferralRepository,
	orderOrchestrator contracts.OrderOrchestrator,
	logger *zap.Logger,
) contracts.ReferralUsecase {
	return &referralUsecase{
		ReferralRepository: referralRepository,
		OrderOrchestrator:  orderOrchestrator,
		Log:                logger,
	}
}

// Create writes the operational referral record first, then places the
// referral ServiceRequest. A repository failure after the record exists leaves
// the record without a FHIR link; the ID backfill below closes it on success.
func (uc *referralUsecase) Create(ctx context.Context, request *requests.CreateReferralRequest) (*responses.ReferralCreated, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("referralUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String("specialty", request.Specialty),
	)

	referral := &models.Referral{
		PatientID:       request.PatientID,
		Specialty:       request.Specialty,
		Facility:        request.Facility,
		Reason:          request.Reason,
		Urgency:         request.Urgency,
		ClinicalSummary: request.ClinicalSummary,
		Status:          constvars.FhirServiceRequestStatusActive,
	}
	referralID, err := uc.ReferralRepository.Insert(ctx, referral)
	if err != nil {
		return nil, err
	}

	item := fmt.Sprintf("Referral to %s (%s)", request.Specialty, request.Facility)
	placed, err := uc.OrderOrchestrator.PlaceOrder(ctx, constvars.OrderKindReferral, request.PatientID, request.EncounterID, []string{item}, contracts.OrderMetadata{
		ClinicalIndication: request.Reason,
		Priority:           request.Urgency,
		Notes:              request.ClinicalSummary,
	})
	if err != nil {
		return nil, err
	}

	serviceRequestID := placed.ServiceRequestIDs[0]
	if err := uc.ReferralRepository.UpdateFhirServiceRequestID(ctx, referralID, serviceRequestID); err != nil {
		return nil, err
	}

	uc.Log.Info("referralUsecase.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("referral_id", referralID),
		zap.String("service_request_id", serviceRequestID),
	)
	return &responses.ReferralCreated{
		ReferralID:       referralID,
		ServiceRequestID: serviceRequestID,
	}, nil
}

func (uc *referralUsecase) FindByID(ctx context.Context, referralID string) (*responses.Referral, error) {
	referral, err := uc.ReferralRepository.FindByID(ctx, referralID)
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, exceptions.ErrReferralNotFound(nil)
	}
	return toResponse(referral), nil
}

func (uc *referralUsecase) FindByPatientID(ctx context.Context, patientID string) ([]responses.Referral, error) {
	referrals, err := uc.ReferralRepository.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	result := make([]responses.Referral, 0, len(referrals))
	for i := range referrals {
		result = append(result, *toResponse(&referrals[i]))
	}
	return result, nil
}

func toResponse(referral *models.Referral) *responses.Referral {
	return &responses.Referral{
		ID:               referral.ID,
		PatientID:        referral.PatientID,
		Specialty:        referral.Specialty,
		Facility:         referral.Facility,
		Reason:           referral.Reason,
		Urgency:          referral.Urgency,
		ClinicalSummary:  referral.ClinicalSummary,
		Status:           referral.Status,
		ServiceRequestID: referral.FhirServiceRequestID,
	}
}
