package transport

import (
	"context"
	"errors"
	"net/http"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/cma"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	var apiErr *cma.APIError

	switch {
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrUnknownTab):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrAssetNotFound),
		errors.Is(err, entity.ErrDialogNotFound),
		errors.Is(err, entity.ErrWidgetNotFound),
		errors.Is(err, entity.ErrNoImage),
		errors.Is(err, entity.ErrNoValue):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDialogClosed):
		return http.StatusConflict
	case errors.Is(err, cma.ErrProcessingTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
