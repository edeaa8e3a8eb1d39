// Package cma talks to the content management REST API.
package cma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	contentTypeCMA    = "application/vnd.contentful.management.v1+json"
	contentTypeBinary = "application/octet-stream"
	versionHeader     = "X-Contentful-Version"
)

var ErrProcessingTimeout = errors.New("asset file was not processed in time")

type Config struct {
	BaseURL            string
	UploadURL          string
	AccessToken        string
	SpaceID            string
	EnvironmentID      string
	Timeout            time.Duration
	RateLimit          float64 // requests per second, 0 disables
	ProcessingChecks   int
	ProcessingInterval time.Duration
}

// Client is scoped to a single space and environment.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ProcessingChecks <= 0 {
		cfg.ProcessingChecks = 10
	}
	if cfg.ProcessingInterval <= 0 {
		cfg.ProcessingInterval = 500 * time.Millisecond
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = cfg.BaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

func (c *Client) environmentPath(base string) string {
	return fmt.Sprintf("%s/spaces/%s/environments/%s",
		strings.TrimRight(base, "/"), url.PathEscape(c.cfg.SpaceID), url.PathEscape(c.cfg.EnvironmentID))
}

func (c *Client) assetPath(assetID string) string {
	return c.environmentPath(c.cfg.BaseURL) + "/assets/" + url.PathEscape(assetID)
}

func (c *Client) GetAsset(ctx context.Context, assetID string) (*entity.Asset, error) {
	var asset entity.Asset
	if err := c.do(ctx, "asset.get", http.MethodGet, c.assetPath(assetID), 0, "", nil, &asset); err != nil {
		return nil, fmt.Errorf("get asset %s: %w", assetID, err)
	}
	return &asset, nil
}

func (c *Client) UpdateAsset(ctx context.Context, asset *entity.Asset) (*entity.Asset, error) {
	body, err := json.Marshal(struct {
		Fields entity.AssetFields `json:"fields"`
	}{Fields: asset.Fields})
	if err != nil {
		return nil, err
	}

	var updated entity.Asset
	err = c.do(ctx, "asset.update", http.MethodPut, c.assetPath(asset.Sys.ID), asset.Sys.Version,
		contentTypeCMA, bytes.NewReader(body), &updated)
	if err != nil {
		return nil, fmt.Errorf("update asset %s: %w", asset.Sys.ID, err)
	}
	return &updated, nil
}

// ProcessAssetForLocale asks the API to turn the uploaded file into a deliverable file,
// then polls the asset until the locale's url is set.
func (c *Client) ProcessAssetForLocale(ctx context.Context, asset *entity.Asset, locale string) (*entity.Asset, error) {
	endpoint := c.assetPath(asset.Sys.ID) + "/files/" + url.PathEscape(locale) + "/process"
	if err := c.do(ctx, "asset.process", http.MethodPut, endpoint, asset.Sys.Version, "", nil, nil); err != nil {
		return nil, fmt.Errorf("process asset %s for %s: %w", asset.Sys.ID, locale, err)
	}

	for check := 0; check < c.cfg.ProcessingChecks; check++ {
		timer := time.NewTimer(c.cfg.ProcessingInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		processed, err := c.GetAsset(ctx, asset.Sys.ID)
		if err != nil {
			return nil, err
		}
		if f := processed.FileAt(locale); f != nil && f.URL != "" {
			return processed, nil
		}
	}

	return nil, fmt.Errorf("process asset %s for %s: %w", asset.Sys.ID, locale, ErrProcessingTimeout)
}

func (c *Client) PublishAsset(ctx context.Context, asset *entity.Asset) (*entity.Asset, error) {
	var published entity.Asset
	err := c.do(ctx, "asset.publish", http.MethodPut, c.assetPath(asset.Sys.ID)+"/published",
		asset.Sys.Version, "", nil, &published)
	if err != nil {
		return nil, fmt.Errorf("publish asset %s: %w", asset.Sys.ID, err)
	}
	return &published, nil
}

func (c *Client) CreateUpload(ctx context.Context, data []byte) (*entity.Upload, error) {
	var upload entity.Upload
	endpoint := c.environmentPath(c.cfg.UploadURL) + "/uploads"
	if err := c.do(ctx, "upload.create", http.MethodPost, endpoint, 0, contentTypeBinary, bytes.NewReader(data), &upload); err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	return &upload, nil
}

type localeItem struct {
	Code         string  `json:"code"`
	Default      bool    `json:"default"`
	FallbackCode *string `json:"fallbackCode"`
}

func (c *Client) Locales(ctx context.Context) (entity.Locales, error) {
	var page struct {
		Items []localeItem `json:"items"`
	}
	if err := c.do(ctx, "locale.list", http.MethodGet, c.environmentPath(c.cfg.BaseURL)+"/locales", 0, "", nil, &page); err != nil {
		return entity.Locales{}, fmt.Errorf("list locales: %w", err)
	}

	locales := entity.Locales{Fallbacks: make(map[string]string, len(page.Items))}
	for _, item := range page.Items {
		if item.Default {
			locales.Default = item.Code
		}
		if item.FallbackCode != nil && *item.FallbackCode != "" {
			locales.Fallbacks[item.Code] = *item.FallbackCode
		}
	}
	return locales, nil
}

// FetchFile downloads a delivered asset file. The caller closes the body.
func (c *Client) FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", fileURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("fetch %s: unexpected status %s", fileURL, resp.Status)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, version int, contentType string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if version > 0 {
		req.Header.Set(versionHeader, strconv.Itoa(version))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.CMADuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CMARequests.WithLabelValues(op, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	metrics.CMARequests.WithLabelValues(op, metrics.StatusClass(resp.StatusCode)).Inc()
	logrus.WithFields(logrus.Fields{
		"operation": op,
		"status":    resp.StatusCode,
		"duration":  time.Since(start),
	}).Debug("cma request")

	if resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
