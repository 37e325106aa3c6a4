package triage

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

type TriageController struct {
	Log            *zap.Logger
	TriageUsecase  contracts.TriageUsecase
	RequestTimeout time.Duration
}

func NewTriageController(logger *zap.Logger, triageUsecase contracts.TriageUsecase, requestTimeout time.Duration) *TriageController {
	return &TriageController{
		Log:            logger,
		TriageUsecase:  triageUsecase,
		RequestTimeout: requestTimeout,
	}
}

func (ctrl *TriageController) RecordTriage(w http.ResponseWriter, r *http.Request) {
	request := new(requests.RecordTriageRequest)
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

	response, err := ctrl.TriageUsecase.RecordTriage(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RecordTriageSuccessMessage, response)
}
