package timing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for timing operations
type Handler struct {
	service *Service
}

// NewHandler creates a new timing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for timing endpoints, mounted under /meetings/{meetingID}/timings
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.Create)
		r.Post("/batch", h.ReplaceSegment)
		r.Post("/batch-all", h.ReplaceAll)
		r.Put("/{timingID}", h.Update)
		r.Delete("/{timingID}", h.Delete)
	})

	return r
}

// List handles GET /meetings/{meetingID}/timings
// @Summary      List timings
// @Description  Returns the meeting's timings and whether the caller holds the Timer role
// @Tags         timings
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=TimingListResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/timings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	canControl, timings, err := h.service.List(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &TimingListResponse{CanControl: canControl, Timings: toResponses(timings)})
}

// Create handles POST /meetings/{meetingID}/timings
// @Summary      Record a timing
// @Tags         timings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body CreateTimingRequest true "Timing"
// @Success      201 {object} response.APIResponse{data=TimingResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID}/timings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTimingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse())
}

// ReplaceSegment handles POST /meetings/{meetingID}/timings/batch
// @Summary      Replace a segment's timings
// @Description  Used for multi-speaker segments. An empty list removes every timing of the segment.
// @Tags         timings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body BatchRequest true "Batch"
// @Success      200 {object} response.APIResponse{data=TimingBatchResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID}/timings/batch [post]
func (h *Handler) ReplaceSegment(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	timings, err := h.service.ReplaceSegment(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &TimingBatchResponse{Timings: toResponses(timings)})
}

// ReplaceAll handles POST /meetings/{meetingID}/timings/batch-all
// @Summary      Replace timings of several segments
// @Tags         timings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body BatchAllRequest true "Batches"
// @Success      200 {object} response.APIResponse{data=TimingBatchResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID}/timings/batch-all [post]
func (h *Handler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	var req BatchAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	timings, err := h.service.ReplaceAll(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &TimingBatchResponse{Timings: toResponses(timings)})
}

// Update handles PUT /meetings/{meetingID}/timings/{timingID}
// @Summary      Edit a timing
// @Tags         timings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        timingID path string true "Timing ID"
// @Param        request body TimingItem true "Timing"
// @Success      200 {object} response.APIResponse{data=TimingResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/timings/{timingID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req TimingItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Update(r.Context(), middleware.GetCaller(r.Context()),
		chi.URLParam(r, "meetingID"), chi.URLParam(r, "timingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// Delete handles DELETE /meetings/{meetingID}/timings/{timingID}
// @Summary      Delete a timing
// @Tags         timings
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        timingID path string true "Timing ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/timings/{timingID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()),
		chi.URLParam(r, "meetingID"), chi.URLParam(r, "timingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Timing deleted successfully"})
}
