package attendance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
	"github.com/Arulthas05/gym-management-backend/internal/auth"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/qr"
	"github.com/Arulthas05/gym-management-backend/internal/user"
)

type Handler struct {
	service    Service
	memberRepo member.Repository
}

func NewHandler(service Service, memberRepo member.Repository) *Handler {
	return &Handler{service: service, memberRepo: memberRepo}
}

// resolveMemberID maps the request onto a member. Members always act on
// themselves; admins may name another member.
func (h *Handler) resolveMemberID(c *gin.Context, requested int) (int, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	role, _ := auth.GetUserRole(c)

	if role != user.RoleMember && requested != 0 {
		return requested, true
	}

	m, err := h.memberRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, http.StatusNotFound, "Member profile not found")
		return 0, false
	}

	return m.ID, true
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	memberID, ok := h.resolveMemberID(c, req.MemberID)
	if !ok {
		return
	}

	a, err := h.service.CheckIn(c.Request.Context(), memberID, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMethod):
			api.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrMemberNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrMembershipInvalid):
			api.Fail(c, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrAlreadyCheckedIn):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Check-in failed")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Checked in successfully", a)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req struct {
		MemberID int `json:"memberId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	memberID, ok := h.resolveMemberID(c, req.MemberID)
	if !ok {
		return
	}

	a, err := h.service.CheckOut(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, ErrNoOpenAttendance) {
			api.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Check-out failed")
		return
	}

	api.OK(c, http.StatusOK, "Checked out successfully", a)
}

// QRCheckIn is hit by the gate scanner, without an authenticated user.
func (h *Handler) QRCheckIn(c *gin.Context) {
	var req QRCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.service.QRCheckIn(c.Request.Context(), req.QRData)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrInvalidPayload):
			api.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrMemberNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrMembershipInvalid):
			api.Fail(c, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrAlreadyCheckedIn):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Check-in failed")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Checked in successfully", a)
}

func (h *Handler) Today(c *gin.Context) {
	rows, stats, err := h.service.Today(c.Request.Context())
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch today's attendance")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"attendance": rows,
		"stats":      stats,
	})
}

func (h *Handler) MemberHistory(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberId"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid member ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, stats, total, err := h.service.MemberHistory(c.Request.Context(), memberID, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch attendance history")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"attendance": rows,
		"stats":      stats,
		"pagination": api.NewPagination(page, limit, total),
	})
}
