package payment

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

func (h *Handler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Process(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrPlanNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrOrderNotPending):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to process payment")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Payment processed successfully", p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			api.Fail(c, http.StatusNotFound, "Payment not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch payment")
		return
	}

	api.OK(c, http.StatusOK, "", p)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	memberID, _ := strconv.Atoi(c.DefaultQuery("member_id", "0"))
	status := Status(c.Query("status"))
	paymentType := Type(c.Query("type"))

	payments, total, err := h.service.List(c.Request.Context(), memberID, status, paymentType, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"payments":   payments,
		"pagination": api.NewPagination(page, limit, total),
	})
}

// My lists the authenticated member's payment history.
func (h *Handler) My(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payments, err := h.service.PaymentsByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			api.Fail(c, http.StatusNotFound, "Member profile not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{"payments": payments})
}

func (h *Handler) Confirm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	if err := h.service.Confirm(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotPending) {
			api.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to confirm payment")
		return
	}

	api.OK(c, http.StatusOK, "Payment confirmed successfully", nil)
}

func (h *Handler) Refund(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	if err := h.service.Refund(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			api.Fail(c, http.StatusNotFound, "Payment not found")
		case errors.Is(err, ErrNotRefundable), errors.Is(err, ErrNoTransaction):
			api.Fail(c, http.StatusBadRequest, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to refund payment")
		}
		return
	}

	api.OK(c, http.StatusOK, "Payment refunded successfully", nil)
}

// DownloadInvoice serves the rendered PDF for a payment.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	path, err := h.service.InvoicePath(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			api.Fail(c, http.StatusNotFound, "Payment not found")
		case errors.Is(err, ErrNoInvoice):
			api.Fail(c, http.StatusNotFound, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to fetch invoice")
		}
		return
	}

	c.File(path)
}
