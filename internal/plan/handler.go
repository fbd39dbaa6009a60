package plan

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type planView struct {
	Plan
	Popular bool `json:"popular"`
}

func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Error fetching plans")
		return
	}

	views := make([]planView, 0, len(plans))
	for _, p := range plans {
		views = append(views, planView{Plan: p, Popular: p.Popular()})
	}

	api.OK(c, http.StatusOK, "", views)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, http.StatusNotFound, "Membership plan not found")
		return
	}

	api.OK(c, http.StatusOK, "", planView{Plan: *p, Popular: p.Popular()})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Error creating plan")
		return
	}

	api.OK(c, http.StatusCreated, "Plan created successfully", p)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, req); err != nil {
		if err == ErrPlanNotFound {
			api.Fail(c, http.StatusNotFound, "Membership plan not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error updating plan")
		return
	}

	api.OK(c, http.StatusOK, "Plan updated successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if err == ErrPlanNotFound {
			api.Fail(c, http.StatusNotFound, "Membership plan not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error deleting plan")
		return
	}

	api.OK(c, http.StatusOK, "Plan deleted successfully", nil)
}
