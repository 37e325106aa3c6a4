package referrals

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

type ReferralController struct {
	Log             *zap.Logger
	ReferralUsecase contracts.ReferralUsecase
	RequestTimeout  time.Duration
}

func NewReferralController(logger *zap.Logger, referralUsecase contracts.ReferralUsecase, requestTimeout time.Duration) *ReferralController {
	return &ReferralController{
		Log:             logger,
		ReferralUsecase: referralUsecase,
		RequestTimeout:  requestTimeout,
	}
}

func (ctrl *ReferralController) CreateReferral(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateReferralRequest)
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

	response, err := ctrl.ReferralUsecase.Create(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateReferralSuccessMessage, response)
}

// GetReferrals serves both lookups: ?id= for a single referral, ?patientId=
// for the patient's referral history.
func (ctrl *ReferralController) GetReferrals(w http.ResponseWriter, r *http.Request) {
	referralID := r.URL.Query().Get(constvars.URLQueryParamID)
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	switch {
	case referralID != "":
		referral, err := ctrl.ReferralUsecase.FindByID(ctx, referralID)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetReferralSuccessMessage, referral)
	case patientID != "":
		referrals, err := ctrl.ReferralUsecase.FindByPatientID(ctx, patientID)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetReferralSuccessMessage, referrals)
	default:
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingReferralLookupParam())
	}
}
