package trainer

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Error creating trainer")
		return
	}

	api.OK(c, http.StatusCreated, "Trainer created successfully", t)
}

func (h *Handler) List(c *gin.Context) {
	onlyAvailable := c.Query("available") == "true"

	trainers, err := h.repo.List(c.Request.Context(), onlyAvailable)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Error fetching trainers")
		return
	}

	api.OK(c, http.StatusOK, "", trainers)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, http.StatusNotFound, "Trainer not found")
		return
	}

	api.OK(c, http.StatusOK, "", t)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, req); err != nil {
		if err == ErrTrainerNotFound {
			api.Fail(c, http.StatusNotFound, "Trainer not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error updating trainer")
		return
	}

	api.OK(c, http.StatusOK, "Trainer updated successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if err == ErrTrainerNotFound {
			api.Fail(c, http.StatusNotFound, "Trainer not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error deleting trainer")
		return
	}

	api.OK(c, http.StatusOK, "Trainer deleted successfully", nil)
}
