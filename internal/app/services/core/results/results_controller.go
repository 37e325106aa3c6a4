package results

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type ResultsController struct {
	Log            *zap.Logger
	ResultsGateway contracts.ResultsGateway
	RequestTimeout time.Duration
}

func NewResultsController(logger *zap.Logger, resultsGateway contracts.ResultsGateway, requestTimeout time.Duration) *ResultsController {
	return &ResultsController{
		Log:            logger,
		ResultsGateway: resultsGateway,
		RequestTimeout: requestTimeout,
	}
}

// GetResults returns the merged clinical timeline across orders, reports and
// studies, by patient or by encounter.
func (ctrl *ResultsController) GetResults(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)
	encounterID := r.URL.Query().Get(constvars.URLQueryParamEncounterID)

	if patientID == "" && encounterID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingPatientOrEncounterParam())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	var merged []responses.ClinicalResource
	var err error
	if encounterID != "" {
		merged, err = ctrl.ResultsGateway.ByEncounter(ctx, encounterID)
	} else {
		merged, err = ctrl.ResultsGateway.ByPatient(ctx, patientID)
	}
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetResultsSuccessMessage, merged)
}
