// Package handler maps HTTP requests onto the services and domain errors
// back onto status codes. This is the only layer that knows about both.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"memory-gallery/internal/domain"
	resp "memory-gallery/internal/transport/http/response"
)

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, resp.Error(resp.CodeConflict, err.Error()))
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, resp.Error(resp.CodeConflict, err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, err.Error()))
	case errors.Is(err, domain.ErrInvalidPhotoFormat):
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, err.Error()))
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, msg))
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, resp.OK(data))
}

func message(c *gin.Context, msg string) {
	ok(c, gin.H{"message": msg})
}
