package routers

import (
	"emr-service/internal/app/services/core/referrals"

	"github.com/go-chi/chi/v5"
)

func attachReferralRoutes(router chi.Router, referralController *referrals.ReferralController) {
	router.Post("/", referralController.CreateReferral)
	router.Get("/", referralController.GetReferrals)
}
