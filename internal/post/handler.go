package post

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for blog posts
type Handler struct {
	service *Service
}

// NewHandler creates a new post handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for post endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{slug}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.Create)
		r.Patch("/{slug}", h.Update)
		r.Delete("/{slug}", h.Delete)
	})

	return r
}

// Create handles POST /posts
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post"
// @Success      201 {object} response.APIResponse{data=PostResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, p)
}

// List handles GET /posts
// @Summary      List posts
// @Description  Non-members see public posts only
// @Tags         posts
// @Produce      json
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]PostResponse}
// @Router       /posts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	posts, total, err := h.service.List(r.Context(), middleware.GetCaller(r.Context()), page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	names, err := h.service.AuthorNames(r.Context(), posts...)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	postResponses := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		postResponses = append(postResponses, p.ToResponse(names))
	}

	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	response.JSONWithMeta(w, http.StatusOK, postResponses, meta)
}

// Get handles GET /posts/{slug}
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} response.APIResponse{data=PostResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /posts/{slug} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, p)
}

// Update handles PATCH /posts/{slug}
// @Summary      Edit a post
// @Description  Only the author or an admin may edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Param        request body UpdatePostRequest true "Changes"
// @Success      200 {object} response.APIResponse{data=PostResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /posts/{slug} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Update(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "slug"), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, p)
}

// Delete handles DELETE /posts/{slug}
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /posts/{slug} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "slug")); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, p *Post) {
	names, err := h.service.AuthorNames(r.Context(), p)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, status, p.ToResponse(names))
}
