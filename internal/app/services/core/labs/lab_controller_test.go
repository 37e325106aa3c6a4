package labs

import (
	"bytes"
	"context"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLabUsecase struct {
	placeResponse *responses.OrderPlaced
	placeErr      error
}

func (f *fakeLabUsecase) PlaceOrder(_ context.Context, _ *requests.PlaceLabOrderRequest) (*responses.OrderPlaced, error) {
	return f.placeResponse, f.placeErr
}

func (f *fakeLabUsecase) Results(_ context.Context, _, _ string) ([]responses.ClinicalResource, error) {
	return nil, nil
}

func TestLabControllerPlaceOrder(t *testing.T) {
	t.Run("Partial Commit Returns The Per-Item Outcomes", func(t *testing.T) {
		items := []responses.OrderItemOutcome{
			{Index: 0, Item: "CBC", ServiceRequestID: "sr-1"},
			{Index: 1, Item: "Lipid Panel", Error: "upstream unavailable"},
		}
		ctrl := NewLabController(zap.NewNop(), &fakeLabUsecase{
			placeResponse: &responses.OrderPlaced{
				ServiceRequestIDs: []string{"sr-1", ""},
				Items:             items,
			},
			placeErr: exceptions.ErrOrderPartiallyPlaced("Lipid Panel: upstream unavailable"),
		}, time.Second)

		payload, _ := json.Marshal(&requests.PlaceLabOrderRequest{PatientID: "p-1", Tests: []string{"CBC", "Lipid Panel"}})
		recorder := httptest.NewRecorder()
		ctrl.PlaceOrder(recorder, httptest.NewRequest("POST", "/labs/order", bytes.NewReader(payload)))

		assert.Equal(t, constvars.StatusInternalServerError, recorder.Code)

		var body struct {
			Success bool                         `json:"success"`
			Message string                       `json:"message"`
			Data    []responses.OrderItemOutcome `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, items, body.Data)
		assert.Equal(t, "sr-1", body.Data[0].ServiceRequestID)
		assert.Equal(t, "upstream unavailable", body.Data[1].Error)
	})

	t.Run("Total Failure Carries No Outcome Payload", func(t *testing.T) {
		ctrl := NewLabController(zap.NewNop(), &fakeLabUsecase{
			placeErr: exceptions.ErrCreateFHIRResource(nil, constvars.ResourceServiceRequest),
		}, time.Second)

		payload, _ := json.Marshal(&requests.PlaceLabOrderRequest{PatientID: "p-1", Tests: []string{"CBC"}})
		recorder := httptest.NewRecorder()
		ctrl.PlaceOrder(recorder, httptest.NewRequest("POST", "/labs/order", bytes.NewReader(payload)))

		assert.Equal(t, constvars.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "\"data\"")
	})

	t.Run("Full Success Uses The Success Envelope", func(t *testing.T) {
		ctrl := NewLabController(zap.NewNop(), &fakeLabUsecase{
			placeResponse: &responses.OrderPlaced{
				ServiceRequestIDs: []string{"sr-1"},
				Items:             []responses.OrderItemOutcome{{Index: 0, Item: "CBC", ServiceRequestID: "sr-1"}},
			},
		}, time.Second)

		payload, _ := json.Marshal(&requests.PlaceLabOrderRequest{PatientID: "p-1", Tests: []string{"CBC"}})
		recorder := httptest.NewRecorder()
		ctrl.PlaceOrder(recorder, httptest.NewRequest("POST", "/labs/order", bytes.NewReader(payload)))

		assert.Equal(t, constvars.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "\"success\":true")
	})
}
