package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for feedback operations
type Handler struct {
	service *Service
}

// NewHandler creates a new feedback handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for feedback endpoints, mounted under /meetings/{meetingID}/feedbacks
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.Create)
		r.Post("/experiences", h.ReplaceExperiences)
		r.Put("/{feedbackID}", h.Update)
		r.Delete("/{feedbackID}", h.Delete)
	})

	return r
}

// Create handles POST /meetings/{meetingID}/feedbacks
// @Summary      Leave feedback
// @Description  The author is always the caller's own chat identity
// @Tags         feedbacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body CreateFeedbackRequest true "Feedback"
// @Success      201 {object} response.APIResponse{data=FeedbackResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID}/feedbacks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	f, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// List handles GET /meetings/{meetingID}/feedbacks
// @Summary      List feedback
// @Description  Admins see everything; others see feedback they wrote or that is addressed to them
// @Tags         feedbacks
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Param        type query string false "Feedback type"
// @Param        segment_id query string false "Segment ID"
// @Success      200 {object} response.APIResponse{data=FeedbackListResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/feedbacks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	feedbacks, err := h.service.List(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"),
		optional(query.Get("type")), optional(query.Get("segment_id")))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toListResponse(feedbacks))
}

// Update handles PUT /meetings/{meetingID}/feedbacks/{feedbackID}
// @Summary      Edit feedback
// @Tags         feedbacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        feedbackID path string true "Feedback ID"
// @Param        request body UpdateFeedbackRequest true "Feedback"
// @Success      200 {object} response.APIResponse{data=FeedbackResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/feedbacks/{feedbackID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	f, err := h.service.Update(r.Context(), middleware.GetCaller(r.Context()),
		chi.URLParam(r, "meetingID"), chi.URLParam(r, "feedbackID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// Delete handles DELETE /meetings/{meetingID}/feedbacks/{feedbackID}
// @Summary      Delete feedback
// @Tags         feedbacks
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        feedbackID path string true "Feedback ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/feedbacks/{feedbackID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()),
		chi.URLParam(r, "meetingID"), chi.URLParam(r, "feedbackID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Feedback deleted successfully"})
}

// ReplaceExperiences handles POST /meetings/{meetingID}/feedbacks/experiences
// @Summary      Set experience notes
// @Description  Replaces the caller's opening, peak, valley and ending notes for the meeting
// @Tags         feedbacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body ExperienceRequest true "Experiences"
// @Success      200 {object} response.APIResponse{data=FeedbackListResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /meetings/{meetingID}/feedbacks/experiences [post]
func (h *Handler) ReplaceExperiences(w http.ResponseWriter, r *http.Request) {
	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	feedbacks, err := h.service.ReplaceExperiences(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toListResponse(feedbacks))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
