package membership

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
	"github.com/Arulthas05/gym-management-backend/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Assign creates a membership for a member chosen by an admin.
func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrPlanNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to create membership")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Membership created successfully", created)
}

// Purchase buys a plan for the authenticated member.
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	created, invoiceNumber, err := h.service.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			api.Fail(c, http.StatusNotFound, "Member profile not found")
		case errors.Is(err, ErrPlanNotFound):
			api.Fail(c, http.StatusNotFound, "Membership plan not found or inactive")
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to purchase membership")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Membership purchased successfully", gin.H{
		"membership":     created,
		"invoice_number": invoiceNumber,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			api.Fail(c, http.StatusNotFound, "Membership not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch membership")
		return
	}

	api.OK(c, http.StatusOK, "", m)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	memberID, _ := strconv.Atoi(c.DefaultQuery("member_id", "0"))
	status := Status(c.Query("status"))

	memberships, total, err := h.service.List(c.Request.Context(), memberID, status, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch memberships")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"memberships": memberships,
		"pagination":  api.NewPagination(page, limit, total),
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			api.Fail(c, http.StatusNotFound, "Membership not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to update membership")
		return
	}

	api.OK(c, http.StatusOK, "Membership updated successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			api.Fail(c, http.StatusNotFound, "Membership not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to delete membership")
		return
	}

	api.OK(c, http.StatusOK, "Membership deleted successfully", nil)
}

// Expiring lists memberships ending within the next N days (default 7).
func (h *Handler) Expiring(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	memberships, err := h.service.CheckExpiring(c.Request.Context(), days)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch expiring memberships")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"count":       len(memberships),
		"memberships": memberships,
	})
}
