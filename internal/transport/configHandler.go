package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/service"
	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	configService service.ConfigService
}

func NewConfigHandler(configService service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

func (h *ConfigHandler) Activate(c *gin.Context) {
	params, err := h.configService.Activate(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parameters": params})
}

func (h *ConfigHandler) Toggle(c *gin.Context) {
	params, err := h.configService.Toggle(c.Param("tab"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parameters": params})
}

func (h *ConfigHandler) Configure(c *gin.Context) {
	result, err := h.configService.Configure(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SetAppState stores the request body verbatim as the host's current app state.
func (h *ConfigHandler) SetAppState(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(data) > 0 && !json.Valid(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "app state must be valid JSON"})
		return
	}
	state := entity.AppState(data)

	if err := h.configService.SetAppState(c.Request.Context(), state); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
