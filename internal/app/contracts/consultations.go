package contracts

import (
	"context"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
)

// ConsultationUsecase covers what a clinician records during a consultation:
// diagnoses become FHIR Conditions, prescriptions become MedicationRequests,
// both linked under the patient's active encounter.
type ConsultationUsecase interface {
	RecordDiagnosis(ctx context.Context, request *requests.RecordDiagnosisRequest) (*responses.DiagnosisRecorded, error)
	Prescribe(ctx context.Context, request *requests.PrescribeRequest) (*responses.PrescriptionCreated, error)
	Diagnoses(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error)
	Prescriptions(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error)
}
