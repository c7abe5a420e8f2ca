package vote

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for awards and voting
type Handler struct {
	service *Service
}

// NewHandler creates a new vote handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AwardRoutes returns the router mounted under /meetings/{meetingID}/awards
func (h *Handler) AwardRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAwards)
	r.With(middleware.RequireAuth).Put("/", h.SaveAwards)

	return r
}

// VoteRoutes returns the router mounted under /meetings/{meetingID}/votes
func (h *Handler) VoteRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Ballot)
	r.Post("/", h.Cast)
	r.Get("/status", h.Status)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Put("/status", h.SetStatus)
		r.Put("/form", h.SaveForm)
	})

	return r
}

// ListAwards handles GET /meetings/{meetingID}/awards
// @Summary      List awards
// @Tags         votes
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=AwardListResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/awards [get]
func (h *Handler) ListAwards(w http.ResponseWriter, r *http.Request) {
	awards, err := h.service.Awards(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toAwardListResponse(awards))
}

// SaveAwards handles PUT /meetings/{meetingID}/awards
// @Summary      Replace awards
// @Description  Winners are member ids or guest names
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body AwardsRequest true "Awards"
// @Success      200 {object} response.APIResponse{data=AwardListResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /meetings/{meetingID}/awards [put]
func (h *Handler) SaveAwards(w http.ResponseWriter, r *http.Request) {
	var req AwardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	awards, err := h.service.SaveAwards(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toAwardListResponse(awards))
}

// Ballot handles GET /meetings/{meetingID}/votes
// @Summary      List voting categories
// @Description  Members see vote counts; everyone else sees candidates with a zero count
// @Tags         votes
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=VoteListResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/votes [get]
func (h *Handler) Ballot(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Ballot(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toVoteListResponse(categories))
}

// Cast handles POST /meetings/{meetingID}/votes
// @Summary      Cast votes
// @Description  One vote per category while voting is open
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Param        request body BallotRequest true "Ballot"
// @Success      200 {object} response.APIResponse{data=VoteListResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /meetings/{meetingID}/votes [post]
func (h *Handler) Cast(w http.ResponseWriter, r *http.Request) {
	var req BallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	counted, err := h.service.Cast(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toVoteListResponse(Group(counted)))
}

// Status handles GET /meetings/{meetingID}/votes/status
// @Summary      Get voting status
// @Tags         votes
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=VoteStatusResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/votes/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Status(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, st.ToResponse())
}

// SetStatus handles PUT /meetings/{meetingID}/votes/status
// @Summary      Open or close voting
// @Description  Opening requires a saved vote form
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body VoteStatusRequest true "Status"
// @Success      200 {object} response.APIResponse{data=VoteStatusResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /meetings/{meetingID}/votes/status [put]
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req VoteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Open == nil {
		response.BadRequest(w, "Request must include 'open' field")
		return
	}

	st, err := h.service.SetStatus(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), *req.Open)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, st.ToResponse())
}

// SaveForm handles PUT /meetings/{meetingID}/votes/form
// @Summary      Save the vote form
// @Description  Candidates kept under the same category and name keep their votes
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meetingID path string true "Meeting ID"
// @Param        request body VoteFormRequest true "Vote form"
// @Success      200 {object} response.APIResponse{data=VoteListResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /meetings/{meetingID}/votes/form [put]
func (h *Handler) SaveForm(w http.ResponseWriter, r *http.Request) {
	var req VoteFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	categories, err := h.service.SaveForm(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toVoteListResponse(categories))
}
