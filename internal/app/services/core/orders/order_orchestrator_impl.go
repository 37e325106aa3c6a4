package orders

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/fhir_dto"
	"emr-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

type orderOrchestrator struct {
	ReferenceLinker contracts.ReferenceLinker
	EventPublisher  contracts.EventPublisher
	Log             *zap.Logger
}

func NewOrderOrchestrator(
	referenceLinker contracts.ReferenceLinker,
	eventPublisher contracts.EventPublisher,
	logger *zap.Logger,
) contracts.OrderOrchestrator {
	return &orderOrchestrator{
		ReferenceLinker: referenceLinker,
		EventPublisher:  eventPublisher,
		Log:             logger,
	}
}

// PlaceOrder runs validate-then-commit. The validation phase touches nothing
// external; only when every item passes does the commit fan out, one
// ServiceRequest per item, preserving input order in the outcome slice.
func (o *orderOrchestrator) PlaceOrder(ctx context.Context, kind, patientID, encounterID string, items []string, metadata contracts.OrderMetadata) (*responses.OrderPlaced, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	o.Log.Info("orderOrchestrator.PlaceOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("kind", kind),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int("items", len(items)),
	)

	if len(items) == 0 {
		return nil, exceptions.ErrOrderNoItems()
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return nil, exceptions.ErrOrderNoItems()
		}
	}
	indication := strings.TrimSpace(metadata.ClinicalIndication)
	if kind == constvars.OrderKindImaging && indication == "" {
		return nil, exceptions.ErrImagingNoIndication()
	}

	subject, err := o.ReferenceLinker.EnsurePatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	encounter, err := o.ReferenceLinker.EnsureEncounter(ctx, patientID, encounterID)
	if err != nil {
		return nil, err
	}

	authoredAt := time.Now().UTC()
	results := utils.RunIndexed(ctx, len(items), func(ctx context.Context, index int) (fhir_dto.ExternalReference, error) {
		input := utils.ServiceRequestInput{
			Kind:               kind,
			Item:               items[index],
			ClinicalIndication: indication,
			Priority:           metadata.Priority,
			AuthoredAt:         authoredAt,
		}
		serviceRequest, err := utils.MapServiceRequestToFhir(input, subject.AsReference(), nil)
		if err != nil {
			return fhir_dto.ExternalReference{}, err
		}
		return o.ReferenceLinker.LinkServiceRequest(ctx, serviceRequest, subject, &encounter)
	})

	response := &responses.OrderPlaced{
		ServiceRequestIDs: make([]string, len(items)),
		Items:             make([]responses.OrderItemOutcome, len(items)),
	}
	failed := 0
	for _, result := range results {
		outcome := responses.OrderItemOutcome{Index: result.Index, Item: items[result.Index]}
		if result.Err != nil {
			failed++
			outcome.Error = result.Err.Error()
		} else {
			outcome.ServiceRequestID = result.Value.ID
			response.ServiceRequestIDs[result.Index] = result.Value.ID
		}
		response.Items[result.Index] = outcome
	}

	if failed == len(items) {
		return nil, exceptions.ErrCreateFHIRResource(nil, constvars.ResourceServiceRequest)
	}
	if failed > 0 {
		o.Log.Warn("orderOrchestrator.PlaceOrder committed partially",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("failed", failed),
			zap.Int("items", len(items)),
		)
		// Committed items stay committed; the caller gets the per-index
		// outcomes and decides what to retry.
		return response, exceptions.ErrOrderPartiallyPlaced(partialFailureDetail(response.Items))
	}

	if err := o.EventPublisher.Publish(ctx, constvars.EventOrderPlaced, map[string]interface{}{
		"kind":              kind,
		"patientId":         patientID,
		"serviceRequestIds": response.ServiceRequestIDs,
	}); err != nil {
		o.Log.Warn("orderOrchestrator.PlaceOrder event publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	o.Log.Info("orderOrchestrator.PlaceOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("items", len(items)),
	)
	return response, nil
}

func partialFailureDetail(items []responses.OrderItemOutcome) string {
	var b strings.Builder
	for _, item := range items {
		if item.Error == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(item.Item)
		b.WriteString(": ")
		b.WriteString(item.Error)
	}
	return b.String()
}
