package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ImageProcessor interface {
	Inspect(data []byte) (ImageInfo, error)
	Thumbnail(src io.Reader, width, height int) ([]byte, string, error)
}

type imageProcessor struct{}

func NewImageProcessor() ImageProcessor {
	return &imageProcessor{}
}

// Inspect reads only the image header.
func (p *imageProcessor) Inspect(data []byte) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to read image header: %w", err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Thumbnail fits the image into width x height keeping the aspect ratio.
// PNG and GIF sources come back as PNG, everything else as JPEG.
func (p *imageProcessor) Thumbnail(src io.Reader, width, height int) ([]byte, string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load image: %w", err)
	}

	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	var (
		buf         bytes.Buffer
		outFormat   = imaging.JPEG
		contentType = "image/jpeg"
	)
	if format == "png" || format == "gif" {
		outFormat = imaging.PNG
		contentType = "image/png"
	}

	if err := imaging.Encode(&buf, thumb, outFormat, imaging.JPEGQuality(90)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentType, nil
}
