package service

import (
	"context"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/editor"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

// DialogSession is one open edit dialog. It is closed exactly once.
type DialogSession struct {
	ID             string
	AssetID        string
	Locale         string
	FallbackLocale string

	mu       sync.Mutex
	state    entity.DialogState
	image    *entity.Asset
	editor   *editor.Config
	result   *entity.DialogResult
	closedAt time.Time
	done     chan struct{}
}

type DialogView struct {
	ID             string               `json:"id"`
	State          entity.DialogState   `json:"state"`
	AssetID        string               `json:"assetId"`
	Locale         string               `json:"locale"`
	FallbackLocale string               `json:"fallbackLocale"`
	Editor         *editor.Config       `json:"editor,omitempty"`
	Result         *entity.DialogResult `json:"result,omitempty"`
}

func newDialogSession(id, assetID, locale, fallback string) *DialogSession {
	return &DialogSession{
		ID:             id,
		AssetID:        assetID,
		Locale:         locale,
		FallbackLocale: fallback,
		state:          entity.DialogLoading,
		done:           make(chan struct{}),
	}
}

func (d *DialogSession) View() DialogView {
	d.mu.Lock()
	defer d.mu.Unlock()

	return DialogView{
		ID:             d.ID,
		State:          d.state,
		AssetID:        d.AssetID,
		Locale:         d.Locale,
		FallbackLocale: d.FallbackLocale,
		Editor:         d.editor,
		Result:         d.result,
	}
}

func (d *DialogSession) State() entity.DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Result is nil until the dialog has closed.
func (d *DialogSession) Result() *entity.DialogResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result
}

// Wait blocks until the dialog closes or ctx is done.
func (d *DialogSession) Wait(ctx context.Context) (entity.DialogResult, error) {
	select {
	case <-d.done:
		return *d.Result(), nil
	case <-ctx.Done():
		return entity.DialogResult{}, ctx.Err()
	}
}

func (d *DialogSession) ready(image *entity.Asset, cfg editor.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.image = image
	d.editor = &cfg
	d.state = entity.DialogReady
}

func (d *DialogSession) loadedImage() *entity.Asset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.image
}

func (d *DialogSession) markEditing() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case entity.DialogReady, entity.DialogEditing:
		d.state = entity.DialogEditing
		return nil
	case entity.DialogClosed:
		return entity.ErrDialogClosed
	default:
		return entity.ErrInvalidInput
	}
}

// beginSave moves the dialog into saving; a second concurrent save is refused.
func (d *DialogSession) beginSave() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case entity.DialogReady, entity.DialogEditing:
		d.state = entity.DialogSaving
		return nil
	case entity.DialogClosed:
		return entity.ErrDialogClosed
	default:
		return entity.ErrInvalidInput
	}
}

// abortSave leaves the dialog open after a failed save.
func (d *DialogSession) abortSave() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == entity.DialogSaving {
		d.state = entity.DialogEditing
	}
}

func (d *DialogSession) close(result entity.DialogResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == entity.DialogClosed {
		return
	}
	d.state = entity.DialogClosed
	d.result = &result
	d.closedAt = time.Now()
	close(d.done)
}

func (d *DialogSession) closedBefore(t time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == entity.DialogClosed && d.closedAt.Before(t)
}
