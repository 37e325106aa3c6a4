package documents

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// 32 MiB in-memory threshold for multipart parsing; larger parts spill to
// temp files.
const maxMultipartMemory = 32 << 20

type DocumentController struct {
	Log             *zap.Logger
	DocumentUsecase contracts.DocumentUsecase
	RequestTimeout  time.Duration
}

func NewDocumentController(logger *zap.Logger, documentUsecase contracts.DocumentUsecase, requestTimeout time.Duration) *DocumentController {
	return &DocumentController{
		Log:             logger,
		DocumentUsecase: documentUsecase,
		RequestTimeout:  requestTimeout,
	}
}

func (ctrl *DocumentController) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	request := &requests.UploadDocumentRequest{
		PatientID:   r.FormValue("patientId"),
		EncounterID: r.FormValue("encounterId"),
		Title:       r.FormValue("title"),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.DocumentUsecase.Upload(ctx, request, file, header.Filename, header.Size, contentType)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UploadDocumentSuccessMessage, response)
}

func (ctrl *DocumentController) GetDocuments(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get(constvars.URLQueryParamPatientID)
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingPatientOrEncounterParam())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	documents, err := ctrl.DocumentUsecase.ListByPatient(ctx, patientID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDocumentsSuccessMessage, documents)
}

func (ctrl *DocumentController) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, constvars.URLParamDocumentID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	if err := ctrl.DocumentUsecase.Delete(ctx, documentID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteDocumentSuccessMessage, nil)
}
