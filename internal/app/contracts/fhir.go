package contracts

import (
	"context"
	"emr-service/internal/pkg/fhir_dto"
)

type PatientFhirClient interface {
	CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error)
	FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error)
}

type EncounterFhirClient interface {
	CreateEncounter(ctx context.Context, request *fhir_dto.Encounter) (*fhir_dto.Encounter, error)
	FindEncounterByID(ctx context.Context, encounterID string) (*fhir_dto.Encounter, error)
	FindEncountersByPatientID(ctx context.Context, patientID string) ([]fhir_dto.Encounter, error)
}

type ConditionFhirClient interface {
	CreateCondition(ctx context.Context, request *fhir_dto.Condition) (*fhir_dto.Condition, error)
	FindConditionsByPatientID(ctx context.Context, patientID string) ([]fhir_dto.Condition, error)
	FindConditionsByEncounterID(ctx context.Context, encounterID string) ([]fhir_dto.Condition, error)
}

type MedicationRequestFhirClient interface {
	CreateMedicationRequest(ctx context.Context, request *fhir_dto.MedicationRequest) (*fhir_dto.MedicationRequest, error)
	FindMedicationRequestsByPatientID(ctx context.Context, patientID string) ([]fhir_dto.MedicationRequest, error)
	FindMedicationRequestsByEncounterID(ctx context.Context, encounterID string) ([]fhir_dto.MedicationRequest, error)
}

type ServiceRequestFhirClient interface {
	CreateServiceRequest(ctx context.Context, request *fhir_dto.ServiceRequest) (*fhir_dto.ServiceRequest, error)
	UpdateServiceRequestStatus(ctx context.Context, serviceRequestID, status string) error
	FindServiceRequestsByPatientID(ctx context.Context, patientID string) ([]fhir_dto.ServiceRequest, error)
	FindServiceRequestsByEncounterID(ctx context.Context, encounterID string) ([]fhir_dto.ServiceRequest, error)
}

type DocumentReferenceFhirClient interface {
	CreateDocumentReference(ctx context.Context, request *fhir_dto.DocumentReference) (*fhir_dto.DocumentReference, error)
	UpdateDocumentReferenceStatus(ctx context.Context, documentReferenceID, status string) error
	FindDocumentReferencesByPatientID(ctx context.Context, patientID string) ([]fhir_dto.DocumentReference, error)
}

type DiagnosticReportFhirClient interface {
	FindDiagnosticReportsByPatientID(ctx context.Context, patientID string) ([]fhir_dto.DiagnosticReport, error)
	FindDiagnosticReportsByEncounterID(ctx context.Context, encounterID string) ([]fhir_dto.DiagnosticReport, error)
}

type ImagingStudyFhirClient interface {
	FindImagingStudiesByPatientID(ctx context.Context, patientID string) ([]fhir_dto.ImagingStudy, error)
	FindImagingStudiesByEncounterID(ctx context.Context, encounterID string) ([]fhir_dto.ImagingStudy, error)
}

type StructureDefinitionFhirClient interface {
	CreateStructureDefinition(ctx context.Context, request *fhir_dto.StructureDefinition) (*fhir_dto.StructureDefinition, error)
	ExistsStructureDefinitionByURL(ctx context.Context, canonicalURL string) (bool, error)
}
