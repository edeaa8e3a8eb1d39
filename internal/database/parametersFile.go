package database

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/storage"
)

type fileParametersRepository struct {
	storage storage.FileStorage
}

func NewFileParametersRepository(storage storage.FileStorage) ParametersRepository {
	return &fileParametersRepository{storage: storage}
}

func (r *fileParametersRepository) GetParameters(_ context.Context) (entity.InstallationParameters, error) {
	data, err := r.read(r.parametersPath())
	if err != nil || data == nil {
		return nil, err
	}

	var params entity.InstallationParameters
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return params, nil
}

func (r *fileParametersRepository) SaveParameters(_ context.Context, params entity.InstallationParameters) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return r.storage.Save(r.parametersPath(), bytes.NewReader(data))
}

func (r *fileParametersRepository) GetAppState(_ context.Context) (entity.AppState, error) {
	data, err := r.read(r.appStatePath())
	if err != nil || data == nil {
		return nil, err
	}
	return entity.AppState(data), nil
}

// SaveAppState removes the stored state when state is empty.
func (r *fileParametersRepository) SaveAppState(_ context.Context, state entity.AppState) error {
	path := r.appStatePath()
	if len(state) == 0 {
		if !r.storage.Exists(path) {
			return nil
		}
		return r.storage.Delete(path)
	}
	return r.storage.Save(path, bytes.NewReader(state))
}

func (r *fileParametersRepository) read(path string) ([]byte, error) {
	if !r.storage.Exists(path) {
		return nil, nil
	}

	reader, err := r.storage.Get(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (r *fileParametersRepository) parametersPath() string {
	return filepath.Join("installation", "parameters.json")
}

func (r *fileParametersRepository) appStatePath() string {
	return filepath.Join("installation", "state.json")
}
