package labs

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

type labUsecase struct {
	OrderOrchestrator          contracts.OrderOrchestrator
	DiagnosticReportFhirClient contracts.DiagnosticReportFhirClient
	Log                        *zap.Logger
}

func NewLabUsecase(
	orderOrchestrator contracts.OrderOrchestrator,
	diagnosticReportFhirClient contracts.DiagnosticReportFhirClient,
	logger *zap.Logger,
) contracts.LabUsecase {
	return &labUsecase{
		OrderOrchestrator:          orderOrchestrator,
		DiagnosticReportFhirClient: diagnosticReportFhirClient,
		Log:                        logger,
	}
}

func (uc *labUsecase) PlaceOrder(ctx context.Context, request *requests.PlaceLabOrderRequest) (*responses.OrderPlaced, error) {
	return uc.OrderOrchestrator.PlaceOrder(ctx, constvars.OrderKindLab, request.PatientID, request.EncounterID, request.Tests, contracts.OrderMetadata{
		Priority: request.Priority,
		Notes:    request.Notes,
	})
}

func (uc *labUsecase) Results(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error) {
	if patientID == "" && encounterID == "" {
		return nil, exceptions.ErrMissingPatientOrEncounterParam()
	}

	var reports []fhir_dto.DiagnosticReport
	var err error
	if encounterID != "" {
		reports, err = uc.DiagnosticReportFhirClient.FindDiagnosticReportsByEncounterID(ctx, encounterID)
	} else {
		reports, err = uc.DiagnosticReportFhirClient.FindDiagnosticReportsByPatientID(ctx, patientID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]responses.ClinicalResource, 0, len(reports))
	for _, report := range reports {
		createdAt, _ := utils.TextDate(report.Issued).Time()
		if createdAt.IsZero() {
			createdAt = report.Meta.LastUpdated
		}
		result = append(result, responses.ClinicalResource{
			ResourceType: constvars.ResourceDiagnosticReport,
			ID:           report.ID,
			CreatedAt:    createdAt,
			Resource:     report,
		})
	}
	return result, nil
}
