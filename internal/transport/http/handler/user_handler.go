package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"memory-gallery/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *UserHandler) List(c *gin.Context) {
	us, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, us)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, u)
}

type updateUserReq struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=64"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,strongpwd"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	var in updateUserReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.users.Update(c.Request.Context(), id, service.UpdateUserInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	message(c, "User updated successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "User deleted successfully")
}
