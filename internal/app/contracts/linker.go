package contracts

import (
	"context"
	"emr-service/internal/pkg/fhir_dto"
)

// ReferenceLinker wires freshly created resources together in the only order
// the repository's referential integrity allows: Patient before Encounter,
// Encounter before any order or condition, order before a document that cites
// it. When a prerequisite fails no dependent create is attempted.
type ReferenceLinker interface {
	// EnsurePatient returns the external reference for the operational
	// patient record, creating the FHIR Patient on first use.
	EnsurePatient(ctx context.Context, patientID string) (fhir_dto.ExternalReference, error)

	// EnsureEncounter resolves encounterID to a reference, or opens a new
	// Encounter under the patient's reference when encounterID is empty.
	EnsureEncounter(ctx context.Context, patientID, encounterID string) (fhir_dto.ExternalReference, error)

	// LinkServiceRequest creates one ServiceRequest with subject and
	// encounter references already attached.
	LinkServiceRequest(ctx context.Context, request *fhir_dto.ServiceRequest, subject fhir_dto.ExternalReference, encounter *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error)

	// LinkCondition creates one Condition with subject and encounter
	// references already attached.
	LinkCondition(ctx context.Context, request *fhir_dto.Condition, subject fhir_dto.ExternalReference, encounter *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error)

	// LinkMedicationRequest creates one MedicationRequest with subject and
	// encounter references already attached.
	LinkMedicationRequest(ctx context.Context, request *fhir_dto.MedicationRequest, subject fhir_dto.ExternalReference, encounter *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error)

	// LinkDocumentReference creates a DocumentReference under the patient
	// reference, optionally citing the encounter.
	LinkDocumentReference(ctx context.Context, request *fhir_dto.DocumentReference, subject fhir_dto.ExternalReference, encounter *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error)
}
