package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/database"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/metrics"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/processor"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	fieldTypeLink    = "Link"
	mimeGroupImage   = "image"
	fileURLScheme    = "https:"
	notifyTimeout    = 10 * time.Second
	defaultPreviewW  = 400
	defaultPreviewH  = 300
	editorDialogName = "Image Editor"
)

type fieldWidget struct {
	id      string
	field   entity.Field
	isImage bool
	cancel  context.CancelFunc
	sub     *database.ValueSubscription
	ctx     context.Context

	mu      sync.Mutex
	assetID string
	editing bool
	last    *entity.Notification
}

func (w *fieldWidget) currentAssetID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.assetID
}

func (w *fieldWidget) setEditing(editing bool) {
	w.mu.Lock()
	w.editing = editing
	w.mu.Unlock()
}

func (w *fieldWidget) track() {
	for link := range w.sub.C {
		w.mu.Lock()
		if link == nil {
			w.assetID = ""
		} else {
			w.assetID = link.Sys.ID
		}
		w.mu.Unlock()
	}
}

func (w *fieldWidget) view() *entity.FieldView {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := &entity.FieldView{
		WidgetID:         w.id,
		Field:            w.field,
		IsImage:          w.isImage,
		AssetID:          w.assetID,
		Editing:          w.editing,
		Actions:          []entity.FieldAction{},
		LastNotification: w.last,
	}
	if w.isImage && w.assetID != "" {
		view.Actions = []entity.FieldAction{
			entity.ActionOpenEditor,
			entity.ActionCopyURL,
			entity.ActionDownload,
			entity.ActionRemove,
		}
	}
	return view
}

type fieldService struct {
	values    database.FieldValueRepository
	dialogs   DialogService
	assets    AssetAPI
	files     FileFetcher
	processor processor.ImageProcessor
	notifier  MessagePublisher

	previewWidth  int
	previewHeight int

	mu      sync.Mutex
	widgets map[string]*fieldWidget
}

func NewFieldService(values database.FieldValueRepository, dialogs DialogService, assets AssetAPI,
	files FileFetcher, processor processor.ImageProcessor, notifier MessagePublisher,
	previewWidth, previewHeight int) FieldService {
	if previewWidth <= 0 || previewHeight <= 0 {
		previewWidth, previewHeight = defaultPreviewW, defaultPreviewH
	}
	return &fieldService{
		values:        values,
		dialogs:       dialogs,
		assets:        assets,
		files:         files,
		processor:     processor,
		notifier:      notifier,
		previewWidth:  previewWidth,
		previewHeight: previewHeight,
		widgets:       make(map[string]*fieldWidget),
	}
}

// IsImageField reports whether field links assets restricted to the image mime group.
func (s *fieldService) IsImageField(field entity.Field) bool {
	if field.Type != fieldTypeLink {
		return false
	}
	for _, v := range field.Validations {
		for _, group := range v.LinkMimetypeGroup {
			if group == mimeGroupImage {
				return true
			}
		}
	}
	return false
}

// Mount binds a widget to field and keeps its asset id in sync with value changes
// until Unmount.
func (s *fieldService) Mount(ctx context.Context, field entity.Field) (*entity.FieldView, error) {
	// subscribe before reading so a change in between is not lost
	widgetCtx, cancel := context.WithCancel(context.Background())
	sub, err := s.values.Subscribe(widgetCtx, field.Key())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to field value: %w", err)
	}

	value, err := s.values.GetValue(ctx, field.Key())
	if err != nil {
		cancel()
		sub.Close()
		return nil, fmt.Errorf("read field value: %w", err)
	}

	widget := &fieldWidget{
		id:      uuid.New().String(),
		field:   field,
		isImage: s.IsImageField(field),
		cancel:  cancel,
		sub:     sub,
		ctx:     widgetCtx,
	}
	if value != nil {
		widget.assetID = value.Sys.ID
	}

	go widget.track()

	s.mu.Lock()
	s.widgets[widget.id] = widget
	s.mu.Unlock()
	metrics.MountedWidgets.Inc()

	logrus.WithFields(logrus.Fields{"widget": widget.id, "field": field.Key(), "image": widget.isImage}).Info("field widget mounted")
	return widget.view(), nil
}

func (s *fieldService) widget(id string) (*fieldWidget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.widgets[id]
	if !ok {
		return nil, entity.ErrWidgetNotFound
	}
	return w, nil
}

// imageWidget returns the widget behind an action; only image fields carry actions.
func (s *fieldService) imageWidget(id string) (*fieldWidget, error) {
	w, err := s.widget(id)
	if err != nil {
		return nil, err
	}
	if !w.isImage {
		return nil, fmt.Errorf("%w: field %s is not an image link", entity.ErrInvalidInput, w.field.Key())
	}
	return w, nil
}

func (s *fieldService) View(id string) (*entity.FieldView, error) {
	w, err := s.widget(id)
	if err != nil {
		return nil, err
	}
	return w.view(), nil
}

func (s *fieldService) Unmount(id string) error {
	s.mu.Lock()
	w, ok := s.widgets[id]
	delete(s.widgets, id)
	s.mu.Unlock()

	if !ok {
		return entity.ErrWidgetNotFound
	}

	w.cancel()
	metrics.MountedWidgets.Dec()
	return w.sub.Close()
}

func (s *fieldService) UnmountAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.widgets))
	for id := range s.widgets {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.Unmount(id); err != nil {
			logrus.WithError(err).WithField("widget", id).Warn("unmount failed")
		}
	}
}

// SetValue links the field to assetID, the way the host does when a user picks an asset.
func (s *fieldService) SetValue(ctx context.Context, id string, assetID string) error {
	w, err := s.widget(id)
	if err != nil {
		return err
	}
	if assetID == "" {
		return fmt.Errorf("%w: assetId is required", entity.ErrInvalidInput)
	}
	return s.values.SetValue(ctx, w.field.Key(), entity.NewAssetLink(assetID))
}

// EditorDialogOptions are the modal settings the field opens the dialog with.
func EditorDialogOptions(params entity.DialogParameters) entity.DialogOptions {
	return entity.DialogOptions{
		Title:               editorDialogName,
		AllowHeightOverflow: true,
		Width:               "fullWidth",
		MinHeight:           "86vh",
		Position:            "center",
		Parameters:          params,
	}
}

// OpenEditor opens the edit dialog for the current value and, once it closes,
// notifies with the dialog's own message.
func (s *fieldService) OpenEditor(ctx context.Context, id string) (*DialogSession, error) {
	w, err := s.imageWidget(id)
	if err != nil {
		return nil, err
	}

	assetID := w.currentAssetID()
	if assetID == "" {
		return nil, entity.ErrNoValue
	}

	w.setEditing(true)
	session, err := s.dialogs.Open(ctx, entity.DialogParameters{AssetID: assetID, Locale: w.field.Locale})
	if err != nil {
		w.setEditing(false)
		return nil, err
	}

	go s.awaitDialog(w, session)
	return session, nil
}

func (s *fieldService) awaitDialog(w *fieldWidget, session *DialogSession) {
	defer w.setEditing(false)

	result, err := session.Wait(w.ctx)
	if err != nil {
		return
	}

	if result.Error {
		s.notify(w, entity.NotifyError, result.Message)
	} else {
		s.notify(w, entity.NotifySuccess, result.Message)
	}
}

func (s *fieldService) notify(w *fieldWidget, level entity.NotificationLevel, message string) {
	n := entity.Notification{
		Level:    level,
		Message:  message,
		FieldKey: w.field.Key(),
		Time:     time.Now(),
	}

	w.mu.Lock()
	w.last = &n
	w.mu.Unlock()

	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.notifier.Publish(ctx, n); err != nil {
		logrus.WithError(err).WithField("widget", w.id).Warn("failed to publish notification")
	}
}

// fileURL resolves the absolute url of the current asset's file at the field locale.
func (s *fieldService) fileURL(ctx context.Context, w *fieldWidget) (string, *entity.FileEntry, error) {
	assetID := w.currentAssetID()
	if assetID == "" {
		return "", nil, entity.ErrNoValue
	}

	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return "", nil, err
	}

	file := asset.FileAt(w.field.Locale)
	if file == nil || file.URL == "" {
		return "", nil, fmt.Errorf("%w: %s", entity.ErrNoImage, w.field.Locale)
	}
	return withScheme(file.URL), file, nil
}

func withScheme(url string) string {
	if strings.HasPrefix(url, "//") {
		return fileURLScheme + url
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return fileURLScheme + url
}

func (s *fieldService) CopyURL(ctx context.Context, id string) (*entity.CopyURLResponse, error) {
	w, err := s.imageWidget(id)
	if err != nil {
		return nil, err
	}

	url, _, err := s.fileURL(ctx, w)
	if err != nil {
		return nil, err
	}

	s.notify(w, entity.NotifySuccess, entity.MessageURLCopied)
	return &entity.CopyURLResponse{URL: url, Message: entity.MessageURLCopied}, nil
}

// Download opens the current file; the caller closes Body.
func (s *fieldService) Download(ctx context.Context, id string) (*Download, error) {
	w, err := s.imageWidget(id)
	if err != nil {
		return nil, err
	}

	url, file, err := s.fileURL(ctx, w)
	if err != nil {
		return nil, err
	}

	body, contentType, err := s.files.FetchFile(ctx, url)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = file.ContentType
	}

	return &Download{FileName: file.FileName, ContentType: contentType, Body: body}, nil
}

func (s *fieldService) Preview(ctx context.Context, id string) ([]byte, string, error) {
	download, err := s.Download(ctx, id)
	if err != nil {
		return nil, "", err
	}
	defer download.Body.Close()

	return s.processor.Thumbnail(download.Body, s.previewWidth, s.previewHeight)
}

// Remove clears the field value. The asset itself is left alone.
func (s *fieldService) Remove(ctx context.Context, id string) error {
	w, err := s.imageWidget(id)
	if err != nil {
		return err
	}
	return s.values.RemoveValue(ctx, w.field.Key())
}
