package routers

import (
	"emr-service/internal/app/services/core/documents"
	"emr-service/internal/pkg/constvars"
	"fmt"

	"github.com/go-chi/chi/v5"
)

func attachDocumentRoutes(router chi.Router, documentController *documents.DocumentController) {
	router.Post("/", documentController.UploadDocument)
	router.Get("/", documentController.GetDocuments)
	router.Delete(fmt.Sprintf("/{%s}", constvars.URLParamDocumentID), documentController.DeleteDocument)
}
