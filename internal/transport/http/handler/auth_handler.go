package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"memory-gallery/internal/core/auth"
	"memory-gallery/internal/domain"
	"memory-gallery/internal/service"
	resp "memory-gallery/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerReq struct {
	FirstName string `json:"first_name" binding:"required,max=64"`
	LastName  string `json:"last_name" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,strongpwd"`
	Role      string `json:"role" binding:"required,oneof=admin user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.users.Register(c.Request.Context(), service.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Role:      domain.Role(in.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}
	message(c, "User created successfully")
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login responds 401 with the same not-found message for unknown email
// and wrong password, so accounts cannot be enumerated.
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	pair, err := h.users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "user not found"))
			return
		}
		fail(c, err)
		return
	}
	ok(c, pair)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var in refreshReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	pair, err := h.users.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid refresh token"))
			return
		}
		fail(c, err)
		return
	}
	ok(c, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
		return
	}
	if err := h.users.Logout(c.Request.Context(), token); err != nil {
		fail(c, err)
		return
	}
	message(c, "Logged out")
}

func (h *AuthHandler) CSRFToken(c *gin.Context) {
	ok(c, gin.H{"csrf_token": auth.NewCSRFToken()})
}
