package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
	"github.com/Arulthas05/gym-management-backend/internal/auth"
	"github.com/Arulthas05/gym-management-backend/internal/member"
)

type Handler struct {
	service    Service
	memberRepo member.Repository
}

func NewHandler(service Service, memberRepo member.Repository) *Handler {
	return &Handler{service: service, memberRepo: memberRepo}
}

func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	role, _ := auth.GetUserRole(c)

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	booked, err := h.service.Book(c.Request.Context(), userID, role, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSchedule):
			api.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrTrainerUnavailable), errors.Is(err, ErrMemberNotFound):
			api.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrSessionConflict):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to book session")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Session booked successfully", booked)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid session ID")
		return
	}

	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			api.Fail(c, http.StatusNotFound, "Session not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch session")
		return
	}

	api.OK(c, http.StatusOK, "", s)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	memberID, _ := strconv.Atoi(c.DefaultQuery("member_id", "0"))
	trainerID, _ := strconv.Atoi(c.DefaultQuery("trainer_id", "0"))
	status := Status(c.Query("status"))

	sessions, total, err := h.service.List(c.Request.Context(), memberID, trainerID, status, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"sessions":   sessions,
		"pagination": api.NewPagination(page, limit, total),
	})
}

// My lists the authenticated member's own sessions.
func (h *Handler) My(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	m, err := h.memberRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, http.StatusNotFound, "Member profile not found")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := Status(c.Query("status"))

	sessions, total, err := h.service.List(c.Request.Context(), m.ID, 0, status, page, limit)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"sessions":   sessions,
		"pagination": api.NewPagination(page, limit, total),
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSchedule):
			api.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSessionNotFound):
			api.Fail(c, http.StatusNotFound, "Session not found")
		case errors.Is(err, ErrSessionConflict):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to update session")
		}
		return
	}

	api.OK(c, http.StatusOK, "Session updated successfully", updated)
}

func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	role, _ := auth.GetUserRole(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id, userID, role); err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			api.Fail(c, http.StatusNotFound, "Session not found")
		case errors.Is(err, ErrNotSessionOwner):
			api.Fail(c, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrSessionFinished):
			api.Fail(c, http.StatusBadRequest, err.Error())
		default:
			api.Fail(c, http.StatusInternalServerError, "Failed to cancel session")
		}
		return
	}

	api.OK(c, http.StatusOK, "Session cancelled successfully", nil)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Complete(c.Request.Context(), id, req.Notes); err != nil {
		if errors.Is(err, ErrNotScheduled) {
			api.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to complete session")
		return
	}

	api.OK(c, http.StatusOK, "Session completed successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			api.Fail(c, http.StatusNotFound, "Session not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	api.OK(c, http.StatusOK, "Session deleted successfully", nil)
}
