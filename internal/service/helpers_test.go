package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

var errFake = errors.New("fake api failure")

// fakeCMA stands in for the content management API and records every write-path call in order.
type fakeCMA struct {
	mu sync.Mutex

	assets  map[string]*entity.Asset
	files   map[string][]byte
	locales entity.Locales
	failOn  string

	calls          []string
	uploads        [][]byte
	updates        []*entity.Asset
	processLocales []string
}

func newFakeCMA(locales entity.Locales, assets ...*entity.Asset) *fakeCMA {
	f := &fakeCMA{
		assets:  make(map[string]*entity.Asset),
		files:   make(map[string][]byte),
		locales: locales,
	}
	for _, a := range assets {
		f.assets[a.Sys.ID] = a
	}
	return f
}

func cloneAsset(a *entity.Asset) *entity.Asset {
	data, _ := json.Marshal(a)
	var out entity.Asset
	_ = json.Unmarshal(data, &out)
	return &out
}

func (f *fakeCMA) record(op string) error {
	f.calls = append(f.calls, op)
	if f.failOn == op {
		return errFake
	}
	return nil
}

func (f *fakeCMA) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCMA) GetAsset(_ context.Context, assetID string) (*entity.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("asset.get"); err != nil {
		return nil, err
	}
	a, ok := f.assets[assetID]
	if !ok {
		return nil, entity.ErrAssetNotFound
	}
	return cloneAsset(a), nil
}

func (f *fakeCMA) UpdateAsset(_ context.Context, asset *entity.Asset) (*entity.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("asset.update"); err != nil {
		return nil, err
	}
	stored := cloneAsset(asset)
	stored.Sys.Version++
	f.assets[stored.Sys.ID] = stored
	f.updates = append(f.updates, cloneAsset(stored))
	return cloneAsset(stored), nil
}

func (f *fakeCMA) ProcessAssetForLocale(_ context.Context, asset *entity.Asset, locale string) (*entity.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("asset.process"); err != nil {
		return nil, err
	}
	f.processLocales = append(f.processLocales, locale)

	stored := f.assets[asset.Sys.ID]
	if file := stored.FileAt(locale); file != nil && file.UploadFrom != nil {
		file.URL = "//images.example.com/" + file.UploadFrom.Sys.ID + "/" + file.FileName
		file.UploadFrom = nil
	}
	stored.Sys.Version++
	return cloneAsset(stored), nil
}

func (f *fakeCMA) PublishAsset(_ context.Context, asset *entity.Asset) (*entity.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("asset.publish"); err != nil {
		return nil, err
	}
	stored := f.assets[asset.Sys.ID]
	stored.Sys.PublishedVersion = stored.Sys.Version
	stored.Sys.Version++
	return cloneAsset(stored), nil
}

func (f *fakeCMA) CreateUpload(_ context.Context, data []byte) (*entity.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("upload.create"); err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, append([]byte(nil), data...))
	return &entity.Upload{Sys: entity.UploadSys{ID: "upload-1", Type: "Upload"}}, nil
}

func (f *fakeCMA) Locales(context.Context) (entity.Locales, error) {
	return f.locales, nil
}

func (f *fakeCMA) FetchFile(_ context.Context, fileURL string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("file.fetch"); err != nil {
		return nil, "", err
	}
	data, ok := f.files[fileURL]
	if !ok {
		return nil, "", errFake
	}
	return io.NopCloser(bytes.NewReader(data)), "", nil
}

type memParameters struct {
	mu     sync.Mutex
	params entity.InstallationParameters
	state  entity.AppState
}

func (m *memParameters) GetParameters(context.Context) (entity.InstallationParameters, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.params == nil {
		return nil, nil
	}
	return m.params.Clone(), nil
}

func (m *memParameters) SaveParameters(_ context.Context, params entity.InstallationParameters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = params.Clone()
	return nil
}

func (m *memParameters) GetAppState(context.Context) (entity.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *memParameters) SaveAppState(_ context.Context, state entity.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

type memJournal struct {
	mu      sync.Mutex
	entries []entity.JournalEntry
}

func (j *memJournal) Record(_ context.Context, entry entity.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

func (j *memJournal) ListByAsset(_ context.Context, assetID string) ([]entity.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []entity.JournalEntry
	for _, e := range j.entries {
		if e.AssetID == assetID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (j *memJournal) Steps() []entity.SaveStep {
	j.mu.Lock()
	defer j.mu.Unlock()

	steps := make([]entity.SaveStep, 0, len(j.entries))
	for _, e := range j.entries {
		steps = append(steps, e.Step)
	}
	return steps
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []entity.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := message.(entity.Notification); ok {
		p.messages = append(p.messages, n)
	}
	return nil
}

func (p *recordingPublisher) Messages() []entity.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.Notification(nil), p.messages...)
}

func imageAsset(id string, files map[string]*entity.FileEntry) *entity.Asset {
	return &entity.Asset{
		Sys:    entity.AssetSys{ID: id, Type: "Asset", Version: 1},
		Fields: entity.AssetFields{File: files},
	}
}

func usLocales() entity.Locales {
	return entity.Locales{Default: "en-US", Fallbacks: map[string]string{"de-DE": "en-US"}}
}
