package transport

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FieldHandler struct {
	fieldService service.FieldService
}

func NewFieldHandler(fieldService service.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fieldService}
}

type MountRequest struct {
	Field entity.Field `json:"field" binding:"required"`
}

type SetValueRequest struct {
	AssetID string `json:"assetId" binding:"required"`
}

func (h *FieldHandler) Mount(c *gin.Context) {
	var req MountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.fieldService.Mount(c.Request.Context(), req.Field)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *FieldHandler) View(c *gin.Context) {
	view, err := h.fieldService.View(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *FieldHandler) Unmount(c *gin.Context) {
	if err := h.fieldService.Unmount(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FieldHandler) SetValue(c *gin.Context) {
	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fieldService.SetValue(c.Request.Context(), c.Param("id"), req.AssetID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OpenEditor returns the opened dialog together with the modal options the host should use.
func (h *FieldHandler) OpenEditor(c *gin.Context) {
	session, err := h.fieldService.OpenEditor(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	params := entity.DialogParameters{AssetID: session.AssetID, Locale: session.Locale}
	c.JSON(http.StatusOK, gin.H{
		"dialog":  session.View(),
		"options": service.EditorDialogOptions(params),
	})
}

func (h *FieldHandler) CopyURL(c *gin.Context) {
	resp, err := h.fieldService.CopyURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FieldHandler) Download(c *gin.Context) {
	download, err := h.fieldService.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer download.Body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.FileName))
	c.Header("Content-Type", download.ContentType)
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, download.Body); err != nil {
		logrus.WithError(err).WithField("widget", c.Param("id")).Warn("download interrupted")
	}
}

func (h *FieldHandler) Preview(c *gin.Context) {
	data, contentType, err := h.fieldService.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (h *FieldHandler) Remove(c *gin.Context) {
	if err := h.fieldService.Remove(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
