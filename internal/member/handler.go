package member

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	members, total, err := h.service.List(c.Request.Context(), search, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Error fetching members")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"members":    members,
		"pagination": api.NewPagination(page, limit, total),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid member ID")
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, http.StatusNotFound, "Member not found")
		return
	}

	api.OK(c, http.StatusOK, "", m)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid member ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		if err == ErrMemberNotFound {
			api.Fail(c, http.StatusNotFound, "Member not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error updating member")
		return
	}

	api.OK(c, http.StatusOK, "Member updated successfully", nil)
}

func (h *Handler) QRCode(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid member ID")
		return
	}

	payload, path, err := h.service.QRCode(c.Request.Context(), id)
	if err != nil {
		if err == ErrMemberNotFound {
			api.Fail(c, http.StatusNotFound, "Member not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error generating QR code")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"qrData":     payload,
		"qrCodePath": path,
	})
}
