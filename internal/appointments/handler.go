package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webvantage/chatbot-platform/internal/schedule"
	"github.com/webvantage/chatbot-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("appointments: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// rejectionResponse is the body for schedule rejections.
type rejectionResponse struct {
	Error         string   `json:"error"`
	Weekday       string   `json:"weekday,omitempty"`
	OpenWindows   string   `json:"open_windows,omitempty"`
	AllowedLabels []string `json:"allowed_labels"`
}

// conflictResponse is the body for double-booking rejections.
type conflictResponse struct {
	Error         string `json:"error"`
	SuggestedDate string `json:"suggested_date,omitempty"`
	SuggestedTime string `json:"suggested_time,omitempty"`
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("appointments: failed to decode request", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	var violation *schedule.Violation
	if errors.As(err, &violation) {
		writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
			Error:         violation.Reason,
			Weekday:       violation.Weekday,
			OpenWindows:   violation.OpenWindows,
			AllowedLabels: violation.AllowedLabels,
		})
		return
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:         "requested slot is already booked",
			SuggestedDate: conflict.SuggestedDate,
			SuggestedTime: conflict.SuggestedTime,
		})
		return
	}

	switch {
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrMissingContact),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrMissingSchedule):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("appointments: create failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create appointment")
	}
}

// Get handles GET /appointments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("appointments: get failed", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "failed to load appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// ListResponse is the response for listing appointments.
type ListResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}

// List handles GET /appointments?status=...&limit=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}
	filter.Status = r.URL.Query().Get("status")

	appts, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("appointments: list failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Appointments: appts, Count: len(appts)})
}

// Update handles PATCH /appointments/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == nil && req.Notes == nil {
		writeJSONError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	appt, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("appointments: update failed", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
