package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/database"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/editor"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/metrics"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/processor"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type dialogService struct {
	assets    AssetAPI
	uploads   UploadAPI
	locales   LocaleAPI
	config    ConfigService
	journal   database.SaveJournal
	processor processor.ImageProcessor

	mu       sync.Mutex
	sessions map[string]*DialogSession
}

func NewDialogService(assets AssetAPI, uploads UploadAPI, locales LocaleAPI, config ConfigService,
	journal database.SaveJournal, processor processor.ImageProcessor) DialogService {
	if journal == nil {
		journal = database.NewNopJournal()
	}
	return &dialogService{
		assets:    assets,
		uploads:   uploads,
		locales:   locales,
		config:    config,
		journal:   journal,
		processor: processor,
		sessions:  make(map[string]*DialogSession),
	}
}

// Open starts a dialog for params. When no image url resolves at the locale or its
// fallback the returned session is already closed with "No image found".
func (s *dialogService) Open(ctx context.Context, params entity.DialogParameters) (*DialogSession, error) {
	if params.AssetID == "" {
		return nil, fmt.Errorf("%w: assetId is required", entity.ErrInvalidInput)
	}

	locales, err := s.locales.Locales(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve locales: %w", err)
	}

	locale := params.Locale
	if locale == "" {
		locale = locales.Default
	}

	session := newDialogSession(uuid.New().String(), params.AssetID, locale, locales.FallbackFor(locale))

	image, err := s.assets.GetAsset(ctx, params.AssetID)
	if err != nil {
		return nil, err
	}

	// everything that can fail happens before the session is registered
	imageURL := image.ImageURL(session.Locale, session.FallbackLocale)
	var installed entity.InstallationParameters
	if imageURL != "" {
		installed, err = s.config.InstalledParameters(ctx)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{
		"dialog": session.ID,
		"asset":  params.AssetID,
		"locale": locale,
	})

	if imageURL == "" {
		log.Warn("no image url at locale or fallback")
		metrics.DialogsOpened.WithLabelValues("no_image").Inc()
		session.close(entity.DialogResult{Error: true, Message: entity.MessageNoImage})
		return session, nil
	}

	session.ready(image, editor.NewConfig(imageURL, installed))
	metrics.DialogsOpened.WithLabelValues("ready").Inc()
	log.Info("dialog ready")

	return session, nil
}

func (s *dialogService) Get(id string) (*DialogSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, entity.ErrDialogNotFound
	}
	return session, nil
}

// BeforeSave is the editor's own-save gate. It never allows it.
func (s *dialogService) BeforeSave(id string) (bool, error) {
	session, err := s.Get(id)
	if err != nil {
		return false, err
	}
	if err := session.markEditing(); err != nil {
		return false, err
	}
	return editor.BeforeSave(), nil
}

// Save writes the edited image back: upload, relink, update, process, publish.
// It reports false without touching the API when the payload is incomplete.
// A failing step is returned as is and the dialog stays open; nothing is rolled back.
func (s *dialogService) Save(ctx context.Context, id string, data entity.SavedImageData) (bool, error) {
	session, err := s.Get(id)
	if err != nil {
		return false, err
	}
	if session.State() == entity.DialogClosed {
		return false, entity.ErrDialogClosed
	}

	payload := ExtractBase64Payload(data.ImageBase64)
	image := session.loadedImage()
	if payload == "" || data.MimeType == "" || image == nil {
		metrics.DialogSaves.WithLabelValues("skipped").Inc()
		return false, nil
	}

	if err := session.beginSave(); err != nil {
		return false, err
	}

	if err := s.saveImage(ctx, session, image, payload, data.MimeType); err != nil {
		session.abortSave()
		metrics.DialogSaves.WithLabelValues("failed").Inc()
		s.record(ctx, session, entity.JournalEntry{Step: entity.StepFailed, Error: err.Error()})
		logrus.WithError(err).WithField("dialog", session.ID).Error("save failed")
		return false, err
	}

	metrics.DialogSaves.WithLabelValues("updated").Inc()
	session.close(entity.DialogResult{Error: false, Message: entity.MessageImageUpdated})
	return true, nil
}

func (s *dialogService) saveImage(ctx context.Context, session *DialogSession, image *entity.Asset, payload, mimeType string) error {
	log := logrus.WithFields(logrus.Fields{"dialog": session.ID, "asset": image.Sys.ID})

	asset, err := s.assets.GetAsset(ctx, image.Sys.ID)
	if err != nil {
		return err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: image payload is not base64: %v", entity.ErrInvalidInput, err)
	}

	uploadLog := log.WithField("contentType", mimeType)
	if s.processor != nil {
		if info, err := s.processor.Inspect(data); err != nil {
			log.WithError(err).Warn("saved image header unreadable")
		} else {
			uploadLog = uploadLog.WithFields(logrus.Fields{"format": info.Format, "width": info.Width, "height": info.Height})
		}
	}

	upload, err := s.uploads.CreateUpload(ctx, data)
	if err != nil {
		return err
	}
	uploadLog.WithField("upload", upload.Sys.ID).Info("image uploaded")
	s.record(ctx, session, entity.JournalEntry{Step: entity.StepUpload, UploadID: upload.Sys.ID})

	file := &entity.FileEntry{
		FileName:    originalFileName(image, session.Locale, session.FallbackLocale),
		ContentType: mimeType,
		UploadFrom:  entity.NewUploadLink(upload.Sys.ID),
	}

	locale := TargetLocale(asset, session.Locale, session.FallbackLocale)
	if asset.FileAt(locale) != nil {
		asset.Fields.File[locale] = file
	}

	asset, err = s.assets.UpdateAsset(ctx, asset)
	if err != nil {
		return err
	}
	s.record(ctx, session, entity.JournalEntry{Step: entity.StepUpdate, UploadID: upload.Sys.ID, AssetVersion: asset.Sys.Version})

	asset, err = s.assets.ProcessAssetForLocale(ctx, asset, locale)
	if err != nil {
		return err
	}
	s.record(ctx, session, entity.JournalEntry{Step: entity.StepProcess, AssetVersion: asset.Sys.Version})

	asset, err = s.assets.PublishAsset(ctx, asset)
	if err != nil {
		return err
	}
	s.record(ctx, session, entity.JournalEntry{Step: entity.StepPublish, AssetVersion: asset.Sys.Version})

	log.WithField("locale", locale).Info("image updated")
	return nil
}

func (s *dialogService) record(ctx context.Context, session *DialogSession, entry entity.JournalEntry) {
	entry.DialogID = session.ID
	entry.AssetID = session.AssetID
	entry.Locale = session.Locale
	entry.CreatedAt = time.Now()

	if err := s.journal.Record(ctx, entry); err != nil {
		logrus.WithError(err).WithField("step", entry.Step).Warn("failed to record save step")
	}
}

// PurgeClosed forgets dialogs closed longer than olderThan ago.
func (s *dialogService) PurgeClosed(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, session := range s.sessions {
		if session.closedBefore(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// ExtractBase64Payload returns everything after the first comma of a data url.
func ExtractBase64Payload(dataURL string) string {
	_, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return ""
	}
	return payload
}

// TargetLocale picks the locale a save overwrites: the edit locale when the asset has a
// file there, otherwise the fallback.
func TargetLocale(asset *entity.Asset, locale, fallback string) string {
	if asset.FileAt(locale) != nil {
		return locale
	}
	return fallback
}

func originalFileName(image *entity.Asset, locale, fallback string) string {
	if f := image.FileAt(locale); f != nil {
		return f.FileName
	}
	if f := image.FileAt(fallback); f != nil {
		return f.FileName
	}
	return ""
}
