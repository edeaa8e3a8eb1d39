package entity

import "time"

type DialogParameters struct {
	AssetID string `json:"assetId"`
	Locale  string `json:"locale,omitempty"`
}

type DialogOptions struct {
	Title               string           `json:"title"`
	AllowHeightOverflow bool             `json:"allowHeightOverflow"`
	Width               string           `json:"width"`
	MinHeight           string           `json:"minHeight"`
	Position            string           `json:"position"`
	Parameters          DialogParameters `json:"parameters"`
}

// DialogResult is what a closed dialog hands back to the field that opened it.
type DialogResult struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type DialogState string

const (
	DialogLoading DialogState = "loading"
	DialogReady   DialogState = "ready"
	DialogEditing DialogState = "editing"
	DialogSaving  DialogState = "saving"
	DialogClosed  DialogState = "closed"
)

const (
	MessageImageUpdated = "Image updated"
	MessageNoImage      = "No image found"
	MessageURLCopied    = "Image url copied to clipboard"
)

// SavedImageData is produced by the embedded editor when the user saves.
type SavedImageData struct {
	Name          string  `json:"name"`
	Extension     string  `json:"extension"`
	MimeType      string  `json:"mimeType"`
	FullName      string  `json:"fullName,omitempty"`
	Height        int     `json:"height,omitempty"`
	Width         int     `json:"width,omitempty"`
	ImageBase64   string  `json:"imageBase64,omitempty"`
	Quality       float64 `json:"quality,omitempty"`
	CloudimageURL string  `json:"cloudimageUrl,omitempty"`
}

type Locales struct {
	Default   string            `json:"default"`
	Fallbacks map[string]string `json:"fallbacks"`
}

// FallbackFor returns the configured fallback of locale, or the default locale.
func (l Locales) FallbackFor(locale string) string {
	if fb := l.Fallbacks[locale]; fb != "" {
		return fb
	}
	return l.Default
}

type SaveStep string

const (
	StepUpload  SaveStep = "upload"
	StepUpdate  SaveStep = "update"
	StepProcess SaveStep = "process"
	StepPublish SaveStep = "publish"
	StepFailed  SaveStep = "failed"
)

// JournalEntry records one completed (or failed) step of a save-back.
type JournalEntry struct {
	DialogID     string    `json:"dialogId"`
	AssetID      string    `json:"assetId"`
	Locale       string    `json:"locale"`
	Step         SaveStep  `json:"step"`
	UploadID     string    `json:"uploadId,omitempty"`
	AssetVersion int       `json:"assetVersion,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
