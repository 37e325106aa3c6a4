package imaging

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/fhir_dto"
	"emr-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type imagingUsecase struct {
	OrderOrchestrator      contracts.OrderOrchestrator
	ImagingStudyFhirClient contracts.ImagingStudyFhirClient
	Log                    *zap.Logger
}

func NewImagingUsecase(
	orderOrchestrator contracts.OrderOrchestrator,
	imagingStudyFhirClient contracts.ImagingStudyFhirClient,
	logger *zap.Logger,
) contracts.ImagingUsecase {
	return &imagingUsecase{
		OrderOrchestrator:      orderOrchestrator,
		ImagingStudyFhirClient: imagingStudyFhirClient,
		Log:                    logger,
	}
}

func (uc *imagingUsecase) PlaceOrder(ctx context.Context, request *requests.PlaceImagingOrderRequest) (*responses.OrderPlaced, error) {
	return uc.OrderOrchestrator.PlaceOrder(ctx, constvars.OrderKindImaging, request.PatientID, request.EncounterID, request.Procedures, contracts.OrderMetadata{
		ClinicalIndication: request.ClinicalIndication,
		Priority:           request.Priority,
	})
}

func (uc *imagingUsecase) Results(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error) {
	if patientID == "" && encounterID == "" {
		return nil, exceptions.ErrMissingPatientOrEncounterParam()
	}

	var studies []fhir_dto.ImagingStudy
	var err error
	if encounterID != "" {
		studies, err = uc.ImagingStudyFhirClient.FindImagingStudiesByEncounterID(ctx, encounterID)
	} else {
		studies, err = uc.ImagingStudyFhirClient.FindImagingStudiesByPatientID(ctx, patientID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]responses.ClinicalResource, 0, len(studies))
	for _, study := range studies {
		createdAt, _ := utils.TextDate(study.Started).Time()
		if createdAt.IsZero() {
			createdAt = study.Meta.LastUpdated
		}
		result = append(result, responses.ClinicalResource{
			ResourceType: constvars.ResourceImagingStudy,
			ID:           study.ID,
			CreatedAt:    createdAt,
			Resource:     study,
		})
	}
	return result, nil
}
