package service

import (
	"context"
	"io"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

// Collaborators consumed from the content management API.

type AssetAPI interface {
	GetAsset(ctx context.Context, assetID string) (*entity.Asset, error)
	UpdateAsset(ctx context.Context, asset *entity.Asset) (*entity.Asset, error)
	ProcessAssetForLocale(ctx context.Context, asset *entity.Asset, locale string) (*entity.Asset, error)
	PublishAsset(ctx context.Context, asset *entity.Asset) (*entity.Asset, error)
}

type UploadAPI interface {
	CreateUpload(ctx context.Context, data []byte) (*entity.Upload, error)
}

type LocaleAPI interface {
	Locales(ctx context.Context) (entity.Locales, error)
}

type FileFetcher interface {
	FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, string, error)
}

// MessagePublisher is satisfied by the kafka producer and the rabbitMQ queue.
type MessagePublisher interface {
	Publish(ctx context.Context, message interface{}) error
}

type ConfigService interface {
	Activate(ctx context.Context) (entity.InstallationParameters, error)
	Toggle(key string) (entity.InstallationParameters, error)
	Configure(ctx context.Context) (*entity.ConfigureResult, error)
	SetAppState(ctx context.Context, state entity.AppState) error
	InstalledParameters(ctx context.Context) (entity.InstallationParameters, error)
}

type DialogService interface {
	Open(ctx context.Context, params entity.DialogParameters) (*DialogSession, error)
	Get(id string) (*DialogSession, error)
	BeforeSave(id string) (bool, error)
	Save(ctx context.Context, id string, data entity.SavedImageData) (bool, error)
	PurgeClosed(olderThan time.Duration) int
}

type FieldService interface {
	IsImageField(field entity.Field) bool
	Mount(ctx context.Context, field entity.Field) (*entity.FieldView, error)
	View(id string) (*entity.FieldView, error)
	Unmount(id string) error
	SetValue(ctx context.Context, id string, assetID string) error
	OpenEditor(ctx context.Context, id string) (*DialogSession, error)
	CopyURL(ctx context.Context, id string) (*entity.CopyURLResponse, error)
	Download(ctx context.Context, id string) (*Download, error)
	Preview(ctx context.Context, id string) ([]byte, string, error)
	Remove(ctx context.Context, id string) error
	UnmountAll()
}

type Download struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
}
