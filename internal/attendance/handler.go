package attendance

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/clubhub/pkg/middleware"
	"github.com/fkhayef/clubhub/pkg/response"
)

// Handler handles HTTP requests for attendance reports
type Handler struct {
	service *Service
}

// NewHandler creates a new attendance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MeetingRoutes returns the router mounted under /meetings/{meetingID}/attendance
func (h *Handler) MeetingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Merge)
	return r
}

// StatsRoutes returns the router mounted under /stats
func (h *Handler) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth)
	r.Get("/dashboard", h.Dashboard)
	return r
}

// Merge handles GET /meetings/{meetingID}/attendance
// @Summary      Meeting attendance
// @Description  Reconciles agenda role-takers with checkins into one member and guest count
// @Tags         attendance
// @Produce      json
// @Param        meetingID path string true "Meeting ID"
// @Success      200 {object} response.APIResponse{data=Result}
// @Failure      404 {object} response.APIResponse
// @Router       /meetings/{meetingID}/attendance [get]
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MergeAttendance(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Dashboard handles GET /stats/dashboard
// @Summary      Dashboard statistics
// @Description  Member role history and attendance of published meetings in a date range (members only)
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string true "Start date (YYYY-MM-DD)"
// @Param        end_date query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} response.APIResponse{data=DashboardResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /stats/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start_date"))
	if err != nil {
		response.BadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end_date"))
	if err != nil {
		response.BadRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	stats, err := h.service.Dashboard(r.Context(), middleware.GetCaller(r.Context()), start, end)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}
