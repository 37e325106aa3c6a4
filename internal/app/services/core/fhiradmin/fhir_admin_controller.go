package fhiradmin

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

type FhirAdminController struct {
	Log                *zap.Logger
	ExtensionRegistrar contracts.ExtensionRegistrar
	RequestTimeout     time.Duration
}

func NewFhirAdminController(logger *zap.Logger, extensionRegistrar contracts.ExtensionRegistrar, requestTimeout time.Duration) *FhirAdminController {
	return &FhirAdminController{
		Log:                logger,
		ExtensionRegistrar: extensionRegistrar,
		RequestTimeout:     requestTimeout,
	}
}

// RegisterExtensions is idempotent on repeat; already-present descriptors are
// reported, never recreated.
func (ctrl *FhirAdminController) RegisterExtensions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	registration, err := ctrl.ExtensionRegistrar.EnsureRegistered(ctx, DefaultExtensionDescriptors())
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := &responses.RegisteredExtensions{
		Registered:     registration.Registered,
		AlreadyPresent: registration.AlreadyPresent,
	}
	for canonicalURL := range registration.Failed {
		response.Failed = append(response.Failed, canonicalURL)
	}

	if !registration.AllPresent() {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrExtensionRegistrationIncomplete(response.Failed))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RegisterExtensionsSuccessMessage, response)
}
