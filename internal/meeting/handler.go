package meeting

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for meeting operations
type Handler struct {
	service *Service
}

// NewHandler creates a new meeting handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for meeting endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{meetingID}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.Create)
		r.Put("/{meetingID}", h.Update)
		r.Put("/{meetingID}/status", h.UpdateStatus)
		r.Delete("/{meetingID}", h.Delete)
	})

	return r
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, m *Meeting) {
	resp, err := h.service.ToResponse(r.Context(), m)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, status, resp)
}

// Create handles POST /meetings
// @Summary      Create a meeting
// @Description  Create a meeting with its agenda. Role-takers are resolved to attendees; new meetings are drafts.
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body MeetingRequest true "Meeting"
// @Success      201 {object} response.APIResponse{data=MeetingResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /meetings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, m)
}

// List handles GET /meetings
// @Summary      List meetings
// @Description  Paginated meetings, newest first. Drafts are listed for members only.
// @Tags         meetings
// @Produce      json
// @Param        status query string false "draft or published"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=[]MeetingResponse}
// @Router       /meetings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	var status *Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := Status(s)
		status = &st
	}

	meetings, total, err := h.service.List(r.Context(), middleware.GetCaller(r.Context()), status, page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	meetingResponses := make([]*MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		resp, err := h.service.ToResponse(r.Context(), m)
		if err != nil {
			response.FromError(w, r, err)
			return
		}
		meetingResponses = append(meetingResponses, resp)
	}

	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	response.JSONWithMeta(w, http.StatusOK, meetingResponses, meta)
}

// GetByID handles GET /meetings/{meetingID}
// @Summary      Get meeting by ID
// @Tags         meetings
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=MeetingResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetVisible(r.Context(), chi.URLParam(r, "meetingID"), middleware.GetCaller(r.Context()))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, m)
}

// Update handles PUT /meetings/{meetingID}
// @Summary      Update a meeting
// @Description  Replace the meeting fields and agenda in one transaction
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body MeetingRequest true "Meeting"
// @Success      200 {object} response.APIResponse{data=MeetingResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.Update(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, m)
}

// UpdateStatus handles PUT /meetings/{meetingID}/status
// @Summary      Publish or unpublish a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body StatusRequest true "Status"
// @Success      200 {object} response.APIResponse{data=MeetingResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /meetings/{meetingID}/status [put]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.UpdateStatus(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), req.Status)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, m)
}

// Delete handles DELETE /meetings/{meetingID}
// @Summary      Delete a meeting
// @Description  Creator or admin only. Segments, checkins, feedback and timings are removed with it.
// @Tags         meetings
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID")); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Meeting deleted successfully"})
}
