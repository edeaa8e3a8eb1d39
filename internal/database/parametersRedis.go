package database

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	parametersKey = "app:installation:parameters"
	appStateKey   = "app:installation:state"
)

type redisParametersRepository struct {
	client *redis.Client
}

func NewRedisParametersRepository(ctx context.Context, client *redis.Client) (ParametersRepository, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisParametersRepository{client: client}, nil
}

func (r *redisParametersRepository) GetParameters(ctx context.Context) (entity.InstallationParameters, error) {
	data, err := r.client.Get(ctx, parametersKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var params entity.InstallationParameters
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return params, nil
}

func (r *redisParametersRepository) SaveParameters(ctx context.Context, params entity.InstallationParameters) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, parametersKey, data, 0).Err()
}

func (r *redisParametersRepository) GetAppState(ctx context.Context) (entity.AppState, error) {
	data, err := r.client.Get(ctx, appStateKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return entity.AppState(data), nil
}

func (r *redisParametersRepository) SaveAppState(ctx context.Context, state entity.AppState) error {
	if len(state) == 0 {
		return r.client.Del(ctx, appStateKey).Err()
	}
	return r.client.Set(ctx, appStateKey, []byte(state), 0).Err()
}
