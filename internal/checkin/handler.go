package checkin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for checkin operations
type Handler struct {
	service *Service
}

// NewHandler creates a new checkin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for checkin endpoints, mounted under /meetings/{meetingID}/checkins
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.Create)
		r.Delete("/segments/{segmentID}", h.Reset)
	})

	return r
}

// Create handles POST /meetings/{meetingID}/checkins
// @Summary      Check in
// @Description  Replace the caller's checkins: segment_ids null = general attendance, [] = check out, [ids] = roles
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body CreateCheckinRequest true "Checkin"
// @Success      201 {object} response.APIResponse{data=CheckinListResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID}/checkins [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	checkins, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, toListResponse(checkins))
}

// List handles GET /meetings/{meetingID}/checkins
// @Summary      List checkins
// @Description  Members see every checkin, chat guests their own, anonymous callers none
// @Tags         checkins
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=CheckinListResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/checkins [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	checkins, err := h.service.List(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toListResponse(checkins))
}

// Reset handles DELETE /meetings/{meetingID}/checkins/segments/{segmentID}
// @Summary      Release a segment
// @Description  Members only. Deletes the holder's row for the segment, or keeps it as general attendance when it is their only row.
// @Tags         checkins
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        segmentID path string true "Segment ID"
// @Success      200 {object} response.APIResponse{data=ResetResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/checkins/segments/{segmentID} [delete]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reset(r.Context(), middleware.GetCaller(r.Context()),
		chi.URLParam(r, "meetingID"), chi.URLParam(r, "segmentID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
