package contracts

import (
	"context"
	"emr-service/internal/app/models"
)

type PatientRepository interface {
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
	UpdateFhirPatientID(ctx context.Context, patientID, fhirPatientID string) error
	UpdateActiveEncounterID(ctx context.Context, patientID, encounterID string) error
}

type ConsultationRepository interface {
	Insert(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error)
	FindByID(ctx context.Context, consultationID string) (*models.Consultation, error)
	FindActiveByPatientID(ctx context.Context, patientID string) (*models.Consultation, error)
	UpdateStatus(ctx context.Context, consultationID, status string) error
}
