package cma

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:            srv.URL,
		UploadURL:          srv.URL,
		AccessToken:        "token",
		SpaceID:            "space",
		EnvironmentID:      "master",
		ProcessingChecks:   3,
		ProcessingInterval: time.Millisecond,
	})
}

func TestGetAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/spaces/space/environments/master/assets/abc123", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		w.Write([]byte(`{"sys":{"id":"abc123","version":4},"fields":{"file":{"en-US":{"fileName":"cat.png","contentType":"image/png","url":"//images.example.com/cat.png"}}}}`))
	})

	asset, err := client.GetAsset(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, 4, asset.Sys.Version)
	require.NotNil(t, asset.FileAt("en-US"))
	assert.Equal(t, "cat.png", asset.FileAt("en-US").FileName)
}

func TestGetAssetNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Contentful-Request-Id", "req-1")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"sys":{"type":"Error","id":"NotFound"},"message":"The resource could not be found."}`))
	})

	_, err := client.GetAsset(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrAssetNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NotFound", apiErr.ID)
	assert.Equal(t, "req-1", apiErr.RequestID)
}

func TestUpdateAssetSendsVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "7", r.Header.Get(versionHeader))
		assert.Equal(t, contentTypeCMA, r.Header.Get("Content-Type"))

		var body map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "fields")
		assert.NotContains(t, body, "sys")

		w.Write([]byte(`{"sys":{"id":"abc123","version":8}}`))
	})

	asset := &entity.Asset{Sys: entity.AssetSys{ID: "abc123", Version: 7}}
	updated, err := client.UpdateAsset(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Sys.Version)
}

func TestCreateUpload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/spaces/space/environments/master/uploads", r.URL.Path)
		assert.Equal(t, contentTypeBinary, r.Header.Get("Content-Type"))

		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sys":{"id":"upload-1","type":"Upload"}}`))
	})

	upload, err := client.CreateUpload(context.Background(), []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, "upload-1", upload.Sys.ID)
}

func TestProcessAssetForLocalePollsUntilURL(t *testing.T) {
	var mu sync.Mutex
	gets := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			assert.Equal(t, "/spaces/space/environments/master/assets/abc123/files/de-DE/process", r.URL.Path)
			assert.Equal(t, "2", r.Header.Get(versionHeader))
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			gets++
			if gets < 2 {
				w.Write([]byte(`{"sys":{"id":"abc123","version":3},"fields":{"file":{"de-DE":{"fileName":"a.png"}}}}`))
				return
			}
			w.Write([]byte(`{"sys":{"id":"abc123","version":3},"fields":{"file":{"de-DE":{"fileName":"a.png","url":"//images.example.com/a.png"}}}}`))
		}
	})

	asset := &entity.Asset{Sys: entity.AssetSys{ID: "abc123", Version: 2}}
	processed, err := client.ProcessAssetForLocale(context.Background(), asset, "de-DE")
	require.NoError(t, err)
	assert.Equal(t, "//images.example.com/a.png", processed.FileAt("de-DE").URL)
	assert.Equal(t, 2, gets)
}

func TestProcessAssetForLocaleGivesUp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"sys":{"id":"abc123"},"fields":{"file":{"en-US":{}}}}`))
	})

	_, err := client.ProcessAssetForLocale(context.Background(), &entity.Asset{Sys: entity.AssetSys{ID: "abc123", Version: 1}}, "en-US")
	assert.ErrorIs(t, err, ErrProcessingTimeout)
}

func TestPublishAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spaces/space/environments/master/assets/abc123/published", r.URL.Path)
		assert.Equal(t, "5", r.Header.Get(versionHeader))
		w.Write([]byte(`{"sys":{"id":"abc123","version":6,"publishedVersion":5}}`))
	})

	published, err := client.PublishAsset(context.Background(), &entity.Asset{Sys: entity.AssetSys{ID: "abc123", Version: 5}})
	require.NoError(t, err)
	assert.Equal(t, 5, published.Sys.PublishedVersion)
}

func TestLocales(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spaces/space/environments/master/locales", r.URL.Path)
		w.Write([]byte(`{"items":[
			{"code":"en-US","default":true,"fallbackCode":null},
			{"code":"de-DE","default":false,"fallbackCode":"en-US"},
			{"code":"de-AT","default":false,"fallbackCode":"de-DE"}
		]}`))
	})

	locales, err := client.Locales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "en-US", locales.Default)
	assert.Equal(t, "de-DE", locales.FallbackFor("de-AT"))
	assert.Equal(t, "en-US", locales.FallbackFor("fr-FR"))
}

func TestFetchFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})

	body, contentType, err := client.FetchFile(context.Background(), client.cfg.BaseURL+"/cat.png")
	require.NoError(t, err)
	defer body.Close()

	data, _ := io.ReadAll(body)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)

	_, _, err = client.FetchFile(context.Background(), client.cfg.BaseURL+"/missing.png")
	assert.Error(t, err)
}
