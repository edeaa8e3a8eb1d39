package cma

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

// APIError is a non-2xx response from the content management API.
type APIError struct {
	StatusCode int
	ID         string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cma: %d %s", e.StatusCode, e.ID)
	}
	return fmt.Sprintf("cma: %d %s: %s", e.StatusCode, e.ID, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == entity.ErrAssetNotFound && e.StatusCode == http.StatusNotFound
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Contentful-Request-Id"),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		apiErr.ID = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var payload struct {
		Sys struct {
			ID string `json:"id"`
		} `json:"sys"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	}
	if json.Unmarshal(data, &payload) != nil {
		apiErr.ID = http.StatusText(resp.StatusCode)
		apiErr.Message = string(data)
		return apiErr
	}

	apiErr.ID = payload.Sys.ID
	apiErr.Message = payload.Message
	if apiErr.RequestID == "" {
		apiErr.RequestID = payload.RequestID
	}
	return apiErr
}
