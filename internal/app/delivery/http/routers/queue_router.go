package routers

import (
	"emr-service/internal/app/services/core/queue"

	"github.com/go-chi/chi/v5"
)

func attachQueueRoutes(router chi.Router, queueController *queue.QueueController) {
	router.Get("/", queueController.GetQueue)
	router.Post("/", queueController.AddToQueue)
	router.Delete("/", queueController.RemoveFromQueue)
	router.Patch("/", queueController.UpdateQueueStatus)
}
