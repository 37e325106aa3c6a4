package contracts

import (
	"context"
	"emr-service/internal/pkg/dto/responses"
)

// OrderMetadata carries the per-order fields that are not per-item.
type OrderMetadata struct {
	ClinicalIndication string
	Priority           string
	Notes              string
}

// OrderOrchestrator validates a batch, then maps and links one ServiceRequest
// per item. Validation failures produce zero external writes; commit failures
// are reported per index, never collapsed into silent success.
type OrderOrchestrator interface {
	PlaceOrder(ctx context.Context, kind, patientID, encounterID string, items []string, metadata OrderMetadata) (*responses.OrderPlaced, error)
}
