package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"memory-gallery/internal/service"
)

type PhotoHandler struct {
	photos *service.PhotoService
}

func NewPhotoHandler(photos *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

type uploadPhotoReq struct {
	Date        time.Time `form:"date" time_format:"2006-01-02" binding:"required"`
	Description string    `form:"description" binding:"max=512"`
	Grade       int       `form:"grade" binding:"required,gt=0,lt=12"`
	Parallel    string    `form:"parallel" binding:"required,parallel"`
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	var in uploadPhotoReq
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	err = h.photos.Upload(c.Request.Context(), service.UploadPhotoInput{
		Date:        in.Date,
		Description: in.Description,
		Grade:       in.Grade,
		Parallel:    in.Parallel,
		FileName:    fh.Filename,
		File:        f,
	})
	if err != nil {
		fail(c, err)
		return
	}
	message(c, "Photo uploaded successfully")
}

func (h *PhotoHandler) List(c *gin.Context) {
	ps, err := h.photos.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ps)
}

func (h *PhotoHandler) Get(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	p, err := h.photos.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *PhotoHandler) ByGrade(c *gin.Context) {
	grade, err := strconv.Atoi(c.Param("grade"))
	if err != nil {
		badRequest(c, "invalid grade")
		return
	}
	ps, err := h.photos.ByGrade(c.Request.Context(), grade)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ps)
}

func (h *PhotoHandler) ByParallel(c *gin.Context) {
	parallel := c.Param("parallel")
	if !parallelRe.MatchString(parallel) {
		badRequest(c, "invalid parallel")
		return
	}
	ps, err := h.photos.ByParallel(c.Request.Context(), parallel)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ps)
}

type updatePhotoReq struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description" binding:"max=512"`
	Grade       int       `json:"grade" binding:"required,gt=0,lt=12"`
	Parallel    string    `json:"parallel" binding:"required,parallel"`
}

func (h *PhotoHandler) Update(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	var in updatePhotoReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.photos.Update(c.Request.Context(), id, service.UpdatePhotoInput{
		Date:        in.Date,
		Description: in.Description,
		Grade:       in.Grade,
		Parallel:    in.Parallel,
	})
	if err != nil {
		fail(c, err)
		return
	}
	message(c, "Photo updated successfully")
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	if err := h.photos.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	message(c, "Photo deleted successfully")
}

// File streams the stored image bytes.
func (h *PhotoHandler) File(c *gin.Context) {
	id, good := parseID(c)
	if !good {
		return
	}
	f, p, err := h.photos.OpenFile(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	ct := mime.TypeByExtension(filepath.Ext(p.Path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Type", ct)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, f)
}
