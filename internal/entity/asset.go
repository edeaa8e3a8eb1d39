package entity

import "time"

// Asset mirrors the content management representation of an asset.
type Asset struct {
	Sys    AssetSys    `json:"sys"`
	Fields AssetFields `json:"fields"`
}

type AssetSys struct {
	ID               string     `json:"id"`
	Type             string     `json:"type,omitempty"`
	Version          int        `json:"version,omitempty"`
	PublishedVersion int        `json:"publishedVersion,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

type AssetFields struct {
	Title       map[string]string     `json:"title,omitempty"`
	Description map[string]string     `json:"description,omitempty"`
	File        map[string]*FileEntry `json:"file,omitempty"`
}

type FileEntry struct {
	FileName    string       `json:"fileName,omitempty"`
	ContentType string       `json:"contentType,omitempty"`
	URL         string       `json:"url,omitempty"`
	Upload      string       `json:"upload,omitempty"`
	UploadFrom  *Link        `json:"uploadFrom,omitempty"`
	Details     *FileDetails `json:"details,omitempty"`
}

type FileDetails struct {
	Size  int64        `json:"size,omitempty"`
	Image *ImageBounds `json:"image,omitempty"`
}

type ImageBounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FileAt returns the file entry stored for locale, or nil.
func (a *Asset) FileAt(locale string) *FileEntry {
	if a == nil || a.Fields.File == nil {
		return nil
	}
	return a.Fields.File[locale]
}

// ImageURL resolves the file url at locale, then at fallback.
func (a *Asset) ImageURL(locale, fallback string) string {
	if f := a.FileAt(locale); f != nil && f.URL != "" {
		return f.URL
	}
	if f := a.FileAt(fallback); f != nil && f.URL != "" {
		return f.URL
	}
	return ""
}

type Upload struct {
	Sys UploadSys `json:"sys"`
}

type UploadSys struct {
	ID        string     `json:"id"`
	Type      string     `json:"type,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type Link struct {
	Sys LinkSys `json:"sys"`
}

type LinkSys struct {
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
	ID       string `json:"id"`
}

func NewUploadLink(uploadID string) *Link {
	return &Link{Sys: LinkSys{Type: "Link", LinkType: "Upload", ID: uploadID}}
}

func NewAssetLink(assetID string) *Link {
	return &Link{Sys: LinkSys{Type: "Link", LinkType: "Asset", ID: assetID}}
}
