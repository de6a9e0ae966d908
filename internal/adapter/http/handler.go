package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
)

// DispatchService is the synchronous surface the HTTP layer consumes.
type DispatchService interface {
	SubmitApplication(ctx context.Context, req dom.ApplicationRequest) (*dom.ApplicationResult, error)
	SubmitBatch(ctx context.Context, batch *dom.BatchMessage, userID string) error
}

type Handler struct {
	svc DispatchService
}

func NewHandler(svc DispatchService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the dispatch routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/{eventID}/applications", h.SubmitApplication)
	r.Post("/events/batch", h.SubmitBatch)
}

type applicationBody struct {
	UserID string `json:"userId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SubmitApplication handles POST /events/{eventID}/applications.
// Both business outcomes return 200 with a message body; only an
// unknown event or a malformed request is an HTTP error.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil || eventID <= 0 {
		writeError(w, http.StatusBadRequest, "event id must be a positive integer")
		return
	}

	var body applicationBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.svc.SubmitApplication(r.Context(), dom.ApplicationRequest{
		EventID: eventID,
		UserID:  body.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, dom.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		case errors.Is(err, dom.ErrInvalidEventID):
			writeError(w, http.StatusBadRequest, "event id must be a positive integer")
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit application")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SubmitBatch handles POST /events/batch. The requesting user comes
// from the X-User-Id header set by the session layer.
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "X-User-Id header is required")
		return
	}

	var batch dom.BatchMessage
	if err := decodeJSON(r, &batch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SubmitBatch(r.Context(), &batch, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to submit batch")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
