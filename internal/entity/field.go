package entity

import (
	"strings"
	"time"
)

type Field struct {
	EntryID     string       `json:"entryId" binding:"required"`
	ID          string       `json:"id" binding:"required"`
	Type        string       `json:"type"`
	LinkType    string       `json:"linkType,omitempty"`
	Locale      string       `json:"locale" binding:"required"`
	Validations []Validation `json:"validations,omitempty"`
}

type Validation struct {
	LinkMimetypeGroup []string `json:"linkMimetypeGroup,omitempty"`
	LinkContentType   []string `json:"linkContentType,omitempty"`
}

// Key identifies one localized field value.
func (f Field) Key() string {
	return strings.Join([]string{f.EntryID, f.ID, f.Locale}, ":")
}

type FieldAction string

const (
	ActionOpenEditor FieldAction = "open-editor"
	ActionCopyURL    FieldAction = "copy-url"
	ActionDownload   FieldAction = "download"
	ActionRemove     FieldAction = "remove"
)

type FieldView struct {
	WidgetID         string        `json:"widgetId"`
	Field            Field         `json:"field"`
	IsImage          bool          `json:"isImage"`
	AssetID          string        `json:"assetId,omitempty"`
	Editing          bool          `json:"editing"`
	Actions          []FieldAction `json:"actions"`
	LastNotification *Notification `json:"lastNotification,omitempty"`
}

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

type Notification struct {
	Level    NotificationLevel `json:"level"`
	Message  string            `json:"message"`
	FieldKey string            `json:"fieldKey,omitempty"`
	Time     time.Time         `json:"time"`
}

type CopyURLResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}
