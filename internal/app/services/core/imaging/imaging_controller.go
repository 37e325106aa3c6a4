package imaging

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

type ImagingController struct {
	Log            *zap.Logger
	ImagingUsecase contracts.ImagingUsecase
	RequestTimeout time.Duration
}

func NewImagingController(logger *zap.Logger, imagingUsecase contracts.ImagingUsecase, requestTimeout time.Duration) *ImagingController {
	return &ImagingController{
		Log:            logger,
		ImagingUsecase: imagingUsecase,
		RequestTimeout: requestTimeout,
	}
}

func (ctrl *ImagingController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	request := new(requests.PlaceImagingOrderRequest)
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

	response, err := ctrl.ImagingUsecase.PlaceOrder(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		if response != nil {
			// Partial commit: the per-item outcomes go out with the error so
			// the client retries only the failed procedures.
			utils.BuildPartialFailureResponse(ctrl.Log, w, err, response.Items)
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PlaceImagingOrderSuccessMessage, response)
}

func (ctrl *ImagingController) GetResults(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)
	encounterID := r.URL.Query().Get(constvars.URLQueryParamEncounterID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	studies, err := ctrl.ImagingUsecase.Results(ctx, patientID, encounterID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetImagingResultsSuccessMessage, studies)
}
