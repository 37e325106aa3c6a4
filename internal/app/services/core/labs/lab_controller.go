package labs

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/utils"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type LabController struct {
	Log            *zap.Logger
	LabUsecase     contracts.LabUsecase
	RequestTimeout time.Duration
}

func NewLabController(logger *zap.Logger, labUsecase contracts.LabUsecase, requestTimeout time.Duration) *LabController {
	return &LabController{
		Log:            logger,
		LabUsecase:     labUsecase,
		RequestTimeout: requestTimeout,
	}
}

func (ctrl *LabController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	request := new(requests.PlaceLabOrderRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.LabUsecase.PlaceOrder(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		if response != nil {
			// Partial commit: the per-item outcomes go out with the error so
			// the client retries only the failed items.
			utils.BuildPartialFailureResponse(ctrl.Log, w, err, response.Items)
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PlaceLabOrderSuccessMessage, response)
}

func (ctrl *LabController) GetResults(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)
	encounterID := r.URL.Query().Get(constvars.URLQueryParamEncounterID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	reports, err := ctrl.LabUsecase.Results(ctx, patientID, encounterID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetLabResultsSuccessMessage, reports)
}
