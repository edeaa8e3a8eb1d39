package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/database"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/sirupsen/logrus"
)

type configService struct {
	repo database.ParametersRepository

	mu    sync.Mutex
	local entity.InstallationParameters
}

func NewConfigService(repo database.ParametersRepository) ConfigService {
	return &configService{
		repo:  repo,
		local: entity.DefaultInstallationParameters(),
	}
}

// Activate loads the persisted parameters into local state. Anything short of a
// complete parameter set is replaced by the all-enabled default, never merged.
func (s *configService) Activate(ctx context.Context) (entity.InstallationParameters, error) {
	params, err := s.repo.GetParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load installation parameters: %w", err)
	}

	if !params.Complete() {
		params = entity.DefaultInstallationParameters()
	}

	s.mu.Lock()
	s.local = params.Clone()
	s.mu.Unlock()

	return params, nil
}

func (s *configService) Toggle(key string) (entity.InstallationParameters, error) {
	if !entity.IsInstallationKey(key) {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownTab, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.local[key] = !s.local[key]
	return s.local.Clone(), nil
}

// Configure is the host's install/save hook.
func (s *configService) Configure(ctx context.Context) (*entity.ConfigureResult, error) {
	state, err := s.repo.GetAppState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load app state: %w", err)
	}

	s.mu.Lock()
	params := s.local.Clone()
	s.mu.Unlock()

	if err := s.repo.SaveParameters(ctx, params); err != nil {
		return nil, fmt.Errorf("save installation parameters: %w", err)
	}

	logrus.WithField("parameters", params).Info("app configured")
	return &entity.ConfigureResult{Parameters: params, TargetState: state}, nil
}

func (s *configService) SetAppState(ctx context.Context, state entity.AppState) error {
	return s.repo.SaveAppState(ctx, state)
}

// InstalledParameters is what the dialog sees: the persisted set, or the default
// when the app has never been configured.
func (s *configService) InstalledParameters(ctx context.Context) (entity.InstallationParameters, error) {
	params, err := s.repo.GetParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load installation parameters: %w", err)
	}
	if params == nil {
		return entity.DefaultInstallationParameters(), nil
	}
	return params, nil
}
