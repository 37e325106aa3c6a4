package queue

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

type QueueController struct {
	Log            *zap.Logger
	QueueUsecase   contracts.QueueUsecase
	RequestTimeout time.Duration
}

func NewQueueController(logger *zap.Logger, queueUsecase contracts.QueueUsecase, requestTimeout time.Duration) *QueueController {
	return &QueueController{
		Log:            logger,
		QueueUsecase:   queueUsecase,
		RequestTimeout: requestTimeout,
	}
}

func (ctrl *QueueController) GetQueue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	entries, err := ctrl.QueueUsecase.List(ctx)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetQueueSuccessMessage, entries)
}

func (ctrl *QueueController) AddToQueue(w http.ResponseWriter, r *http.Request) {
	request := new(requests.AddToQueueRequest)
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

	response, err := ctrl.QueueUsecase.Enqueue(ctx, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.AddToQueueSuccessMessage, response)
}

func (ctrl *QueueController) RemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	request := new(requests.RemoveFromQueueRequest)
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

	if err := ctrl.QueueUsecase.Remove(ctx, request.PatientID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RemoveFromQueueSuccessMessage, nil)
}

func (ctrl *QueueController) UpdateQueueStatus(w http.ResponseWriter, r *http.Request) {
	request := new(requests.UpdateQueueStatusRequest)
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

	if err := ctrl.QueueUsecase.UpdateStatus(ctx, request.PatientID, request.Status); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateQueueStatusSuccessMessage, nil)
}
