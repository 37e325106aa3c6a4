package contracts

import (
	"context"
	"emr-service/internal/pkg/dto/responses"
)

// ResultsGateway answers the two retrieval queries. Zero matches yield an
// empty slice, not an error.
type ResultsGateway interface {
	ByPatient(ctx context.Context, patientID string) ([]responses.ClinicalResource, error)
	ByEncounter(ctx context.Context, encounterID string) ([]responses.ClinicalResource, error)
}
