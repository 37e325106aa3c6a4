package consultations

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

type ConsultationController struct {
	Log                 *zap.Logger
	ConsultationUsecase contracts.ConsultationUsecase
	RequestTimeout      time.Duration
}

func NewConsultationController(logger *zap.Logger, consultationUsecase contracts.ConsultationUsecase, requestTimeout time.Duration) *ConsultationController {
	return &ConsultationController{
		Log:                 logger,
		ConsultationUsecase: consultationUsecase,
		RequestTimeout:      requestTimeout,
	}
}

func (ctrl *ConsultationController) RecordDiagnosis(w http.ResponseWriter, r *http.Request) {
	request := new(requests.RecordDiagnosisRequest)
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

	response, err := ctrl.ConsultationUsecase.RecordDiagnosis(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RecordDiagnosisSuccessMessage, response)
}

func (ctrl *ConsultationController) Prescribe(w http.ResponseWriter, r *http.Request) {
	request := new(requests.PrescribeRequest)
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

	response, err := ctrl.ConsultationUsecase.Prescribe(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PrescribeSuccessMessage, response)
}

func (ctrl *ConsultationController) GetDiagnoses(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)
	encounterID := r.URL.Query().Get(constvars.URLQueryParamEncounterID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	diagnoses, err := ctrl.ConsultationUsecase.Diagnoses(ctx, patientID, encounterID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDiagnosesSuccessMessage, diagnoses)
}

func (ctrl *ConsultationController) GetPrescriptions(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)
	encounterID := r.URL.Query().Get(constvars.URLQueryParamEncounterID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	prescriptions, err := ctrl.ConsultationUsecase.Prescriptions(ctx, patientID, encounterID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPrescriptionsSuccessMessage, prescriptions)
}
