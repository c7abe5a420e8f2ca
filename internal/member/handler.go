package member

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for member operations
type Handler struct {
	service *Service
}

// NewHandler creates a new member handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for member endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/whoami", h.Whoami)
	r.Get("/is-admin", h.IsAdmin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})

	return r
}

// List handles GET /members
// @Summary      List members
// @Description  Get a paginated list of club members (members only)
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetCaller(r.Context()).IsMember() {
		response.FromError(w, r, ErrMembersOnly)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	members, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	memberResponses := make([]*MemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = m.ToResponse()
	}

	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	response.JSONWithMeta(w, http.StatusOK, memberResponses, meta)
}

// GetByID handles GET /members/{id}
// @Summary      Get member by ID
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /members/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetCaller(r.Context()).IsMember() {
		response.FromError(w, r, ErrMembersOnly)
		return
	}

	m, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Whoami handles GET /members/whoami
// @Summary      Describe the caller
// @Description  Identity kind, bound chat id, attendee id and admin flag of the bearer token
// @Tags         members
// @Produce      json
// @Success      200 {object} response.APIResponse{data=WhoamiResponse}
// @Router       /members/whoami [get]
func (h *Handler) Whoami(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())

	resp := &WhoamiResponse{
		Kind:       identity.Kind(caller.Identity),
		Wxid:       caller.Wxid,
		AttendeeID: caller.AttendeeID,
		IsAdmin:    caller.IsAdmin,
	}
	if memberID, ok := caller.MemberID(); ok {
		m, err := h.service.GetByID(r.Context(), memberID)
		if err != nil {
			response.FromError(w, r, err)
			return
		}
		resp.Member = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// IsAdmin handles GET /members/is-admin
// @Summary      Check admin flag
// @Tags         members
// @Produce      json
// @Success      200 {object} response.APIResponse{data=IsAdminResponse}
// @Router       /members/is-admin [get]
func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, &IsAdminResponse{IsAdmin: middleware.GetCaller(r.Context()).IsAdmin})
}
