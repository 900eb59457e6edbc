package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", h.SignupHandler)
		r.Post("/login", h.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/profile", h.GetProfileHandler)
			r.Patch("/profile", h.UpdateProfileHandler)
			r.Delete("/account", h.DeleteAccountHandler)

			r.Get("/onboarding", h.OnboardingStatusHandler)
			r.Post("/onboarding/{step}", h.OnboardingSubmitHandler)

			r.Post("/chat", h.ChatHandler)
			r.Post("/plan", h.PlanHandler)
			r.Post("/reminder/ack", h.AckReminderHandler)

			r.Post("/logs", h.CreateLogHandler)
			r.Get("/logs", h.ListLogsHandler)
			r.Delete("/logs/{logID}", h.DeleteLogHandler)

			r.Get("/intake", h.GetIntakeHandler)
			r.Post("/intake/water", h.AdjustWaterHandler)
			r.Post("/intake/protein", h.AdjustProteinHandler)

			r.Get("/news", h.NewsHandler)
			r.Get("/medications/{name}/side-effects", h.SideEffectsHandler)
		})
	})

	return r
}
