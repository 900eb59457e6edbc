package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medtrack/internal/apperr"
	"medtrack/internal/auth"
	"medtrack/internal/chat"
	"medtrack/internal/intake"
	"medtrack/internal/logbook"
	"medtrack/internal/models"
	"medtrack/internal/news"
	"medtrack/internal/onboarding"
	"medtrack/internal/profile"
	"medtrack/pkg/logger"
)

// UserStore is the account slice of the database the auth handlers use.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Handler struct {
	auth       *auth.Manager
	users      UserStore
	profiles   *profile.Service
	onboarding *onboarding.Controller
	logs       *logbook.Service
	intake     *intake.Counters
	relay      *chat.Relay
	news       *news.Service
	logger     *logger.Logger
}

func NewHandler(
	authManager *auth.Manager,
	users UserStore,
	profiles *profile.Service,
	onboardingCtrl *onboarding.Controller,
	logs *logbook.Service,
	counters *intake.Counters,
	relay *chat.Relay,
	newsService *news.Service,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		auth:       authManager,
		users:      users,
		profiles:   profiles,
		onboarding: onboardingCtrl,
		logs:       logs,
		intake:     counters,
		relay:      relay,
		news:       newsService,
		logger:     logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the error taxonomy onto HTTP statuses and user-facing
// messages.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.KindInvalidArgument:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindRateLimited:
		status = http.StatusTooManyRequests
	case apperr.KindUpstreamUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.KindUpstreamInternal:
		status = http.StatusBadGateway
	case apperr.KindDataFormat:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}
	writeErrorMessage(w, status, apperr.UserMessage(err))
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Errorw("failed to hash password", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		h.logger.Errorw("failed to create user", "email", req.Email, "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// The empty profile exists from the first sign-in onward.
	if err := h.profiles.Create(r.Context(), user.ID); err != nil {
		h.logger.Errorw("failed to create default profile", "user_id", user.ID, "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		h.logger.Errorw("failed to generate token", "user_id", user.ID, "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token, "user_id": user.ID})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeErrorMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		h.logger.Errorw("failed to generate token", "user_id", user.ID, "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "user_id": user.ID})
}

func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.profiles.Update(r.Context(), UserID(r.Context()), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.DeleteAccount(r.Context(), UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) OnboardingStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.onboarding.Status(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) OnboardingSubmitHandler(w http.ResponseWriter, r *http.Request) {
	step := onboarding.Step(chi.URLParam(r, "step"))

	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, status, err := h.onboarding.Submit(r.Context(), UserID(r.Context()), step, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": p,
		"status":  status,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

// ChatHandler streams the assistant reply as newline-delimited JSON
// fragments; the final fragment carries done=true.
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stream, err := h.relay.Send(r.Context(), UserID(r.Context()), req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for {
		frag, err := stream.Recv()
		if err != nil {
			// The response is already committed; emit a terminal fragment
			// carrying the error message instead of a status code.
			enc.Encode(map[string]interface{}{
				"error": apperr.UserMessage(err),
				"done":  true,
			})
			return
		}

		enc.Encode(frag)
		if flusher != nil {
			flusher.Flush()
		}
		if frag.Done {
			return
		}
	}
}

func (h *Handler) PlanHandler(w http.ResponseWriter, r *http.Request) {
	plan, err := h.relay.GeneratePlan(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"plan": plan})
}

type ackRequest struct {
	Action string `json:"action"` // "skip" or "taken"
}

func (h *Handler) AckReminderHandler(w http.ResponseWriter, r *http.Request) {
	var req ackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action != "skip" && req.Action != "taken" {
		writeErrorMessage(w, http.StatusBadRequest, `Action must be "skip" or "taken"`)
		return
	}

	if err := h.profiles.AcknowledgeReminder(r.Context(), UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateLogHandler(w http.ResponseWriter, r *http.Request) {
	var entry models.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	entry.UserID = UserID(r.Context())

	if err := h.logs.Create(r.Context(), &entry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) ListLogsHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logs.List(r.Context(), UserID(r.Context()), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) DeleteLogHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.logs.Delete(r.Context(), UserID(r.Context()), chi.URLParam(r, "logID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type intakeRequest struct {
	Delta float64 `json:"delta"`
	Date  string  `json:"date,omitempty"`
}

func (h *Handler) GetIntakeHandler(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = intake.Day(time.Now())
	}

	totals, err := h.intake.Totals(r.Context(), UserID(r.Context()), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handler) AdjustWaterHandler(w http.ResponseWriter, r *http.Request) {
	h.adjustIntake(w, r, h.intake.AddWater, intake.WaterStepMl)
}

func (h *Handler) AdjustProteinHandler(w http.ResponseWriter, r *http.Request) {
	h.adjustIntake(w, r, h.intake.AddProtein, intake.ProteinStepG)
}

func (h *Handler) adjustIntake(
	w http.ResponseWriter,
	r *http.Request,
	add func(ctx context.Context, userID, day string, delta float64) (float64, error),
	defaultStep float64,
) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Delta == 0 {
		req.Delta = defaultStep
	}
	day := req.Date
	if day == "" {
		day = intake.Day(time.Now())
	}

	total, err := add(r.Context(), UserID(r.Context()), day, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"date": day, "total": total})
}

func (h *Handler) NewsHandler(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))

	articles, err := h.news.GetArticles(r.Context(), topic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (h *Handler) SideEffectsHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.news.GetSideEffects(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
