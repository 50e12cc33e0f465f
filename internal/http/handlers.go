package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/idempotency"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/robertarktes/webinar-seats/internal/usecase"
)

type SeatChanger interface {
	Execute(ctx context.Context, cmd usecase.ChangeSeatsCommand) (int, error)
}

type Handlers struct {
	changeSeats SeatChanger
	webinars    domain.WebinarRepository
	idemp       *idempotency.Idempotency
	logger      observability.Logger
	validate    *validator.Validate
}

// NewHandlers wires the HTTP handlers. idemp may be nil to disable
// Idempotency-Key replays.
func NewHandlers(changeSeats SeatChanger, webinars domain.WebinarRepository, idemp *idempotency.Idempotency, logger observability.Logger) *Handlers {
	return &Handlers{
		changeSeats: changeSeats,
		webinars:    webinars,
		idemp:       idemp,
		logger:      logger,
		validate:    validator.New(),
	}
}

type changeSeatsRequest struct {
	Seats *int `json:"seats" validate:"required"`
}

type changeSeatsResponse struct {
	WebinarID string `json:"webinar_id"`
	Seats     int    `json:"seats"`
}

type webinarResponse struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seats       int       `json:"seats"`
}

func (h *Handlers) ChangeSeats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx, h.logger)

	actor, ok := ActorFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing actor")
		return
	}

	var req changeSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "seats is required")
		return
	}

	webinarID := chi.URLParam(r, "id")
	scope := actor.ID + ":" + webinarID
	fingerprint := strconv.Itoa(*req.Seats)

	key := r.Header.Get("Idempotency-Key")
	if key != "" && h.idemp != nil {
		if len(key) < idempotency.MinKeyLength {
			writeError(w, http.StatusBadRequest, codeInvalidIdempotency, "invalid Idempotency-Key")
			return
		}
		existing, err := h.idemp.Get(ctx, scope, key)
		if err != nil {
			logger.WithError(err).Error("idempotency lookup failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		if existing != nil {
			if existing.Fingerprint != fingerprint {
				writeError(w, http.StatusUnprocessableEntity, codeIdempotencyMismatch, "Idempotency-Key was used with a different request")
				return
			}
			writeJSON(w, existing.Status, existing.Result)
			return
		}
	}

	seats, err := h.changeSeats.Execute(ctx, usecase.ChangeSeatsCommand{
		Actor:     actor,
		WebinarID: webinarID,
		Seats:     *req.Seats,
	})

	var (
		status int
		body   []byte
	)
	if err != nil {
		observability.SeatChanges.WithLabelValues(domain.KindOf(err).String()).Inc()
		status, body = errorResponseFor(err)
		if status == http.StatusInternalServerError {
			logger.WithField("webinar_id", webinarID).WithError(err).Error("change seats failed")
		}
	} else {
		observability.SeatChanges.WithLabelValues("changed").Inc()
		status = http.StatusOK
		body = jsonBody(changeSeatsResponse{WebinarID: webinarID, Seats: seats})
	}

	writeJSON(w, status, body)

	if key != "" && h.idemp != nil && status < http.StatusInternalServerError && status != http.StatusConflict {
		resp := idempotency.Response{Status: status, Result: body, Fingerprint: fingerprint}
		if err := h.idemp.Set(ctx, scope, key, resp); err != nil {
			logger.WithError(err).Warn("idempotency store failed")
		}
	}
}

func (h *Handlers) GetWebinar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	webinar, err := h.webinars.FindByID(r.Context(), id)
	if err != nil {
		observability.LoggerFromContext(r.Context(), h.logger).WithField("webinar_id", id).WithError(err).Error("get webinar failed")
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	if webinar == nil {
		status, body := errorResponseFor(domain.ErrWebinarNotFound)
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, jsonBody(webinarResponse{
		ID:          webinar.ID,
		OrganizerID: webinar.OrganizerID,
		Title:       webinar.Title,
		StartDate:   webinar.StartDate,
		EndDate:     webinar.EndDate,
		Seats:       webinar.Seats,
	}))
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
