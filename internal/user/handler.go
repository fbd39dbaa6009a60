package user

import (
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

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if err == ErrEmailExists {
			api.Fail(c, http.StatusConflict, "Email already registered")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error creating account")
		return
	}

	api.OK(c, http.StatusCreated, "Account created successfully", gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			api.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		case ErrAccountInactive:
			api.Fail(c, http.StatusForbidden, "Account is deactivated")
		default:
			api.Fail(c, http.StatusInternalServerError, "Error logging in")
		}
		return
	}

	api.OK(c, http.StatusOK, "Login successful", gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	accessToken, user, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.Fail(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"accessToken": accessToken,
		"user":        user,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		api.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	api.OK(c, http.StatusOK, "", user)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		if err == ErrUserNotFound {
			api.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error deactivating user")
		return
	}

	api.OK(c, http.StatusOK, "User deactivated", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if err == ErrUserNotFound {
			api.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		api.Fail(c, http.StatusInternalServerError, "Error deleting user")
		return
	}

	api.OK(c, http.StatusOK, "User deleted", nil)
}
