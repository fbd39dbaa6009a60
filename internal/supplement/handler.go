package supplement

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
	"github.com/Arulthas05/gym-management-backend/internal/auth"
	"github.com/Arulthas05/gym-management-backend/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to create supplement")
		return
	}

	api.OK(c, http.StatusCreated, "Supplement created successfully", s)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid supplement ID")
		return
	}

	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSupplementNotFound) {
			api.Fail(c, http.StatusNotFound, "Supplement not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch supplement")
		return
	}

	api.OK(c, http.StatusOK, "", s)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := c.Query("category")
	onlyActive := c.DefaultQuery("active", "true") == "true"

	supplements, total, err := h.service.List(c.Request.Context(), category, onlyActive, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch supplements")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"supplements": supplements,
		"pagination":  api.NewPagination(page, limit, total),
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid supplement ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, ErrSupplementNotFound) {
			api.Fail(c, http.StatusNotFound, "Supplement not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to update supplement")
		return
	}

	api.OK(c, http.StatusOK, "Supplement updated successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid supplement ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrSupplementNotFound) {
			api.Fail(c, http.StatusNotFound, "Supplement not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to delete supplement")
		return
	}

	api.OK(c, http.StatusOK, "Supplement deleted successfully", nil)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	role, _ := auth.GetUserRole(c)

	var order *OrderWithItems
	var err error
	if role == user.RoleMember || req.MemberID == 0 {
		userID, ok := auth.GetUserID(c)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		order, err = h.service.CreateOrderByUser(c.Request.Context(), userID, req.Items)
	} else {
		order, err = h.service.CreateOrder(c.Request.Context(), req.MemberID, req.Items)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrSupplementNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInsufficientStock):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Order created successfully", order)
}

// Purchase is the member-facing buy-now path.
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

	order, invoiceNumber, err := h.service.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrSupplementNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInsufficientStock):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to complete purchase")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Purchase completed successfully", gin.H{
		"order":          order,
		"invoice_number": invoiceNumber,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			api.Fail(c, http.StatusNotFound, "Order not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	api.OK(c, http.StatusOK, "", order)
}

// MyOrders lists the authenticated member's order history.
func (h *Handler) MyOrders(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.service.MemberOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			api.Fail(c, http.StatusNotFound, "Member profile not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{"orders": orders})
}

func (h *Handler) MemberOrders(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberId"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid member ID")
		return
	}

	orders, err := h.service.MemberOrders(c.Request.Context(), memberID)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{"orders": orders})
}
