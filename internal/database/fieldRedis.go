package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type redisFieldValueRepository struct {
	client *redis.Client
}

func NewRedisFieldValueRepository(client *redis.Client) FieldValueRepository {
	return &redisFieldValueRepository{client: client}
}

func valueKey(fieldKey string) string {
	return fmt.Sprintf("field:%s:value", fieldKey)
}

func changesChannel(fieldKey string) string {
	return fmt.Sprintf("field:%s:changes", fieldKey)
}

func (r *redisFieldValueRepository) GetValue(ctx context.Context, fieldKey string) (*entity.Link, error) {
	data, err := r.client.Get(ctx, valueKey(fieldKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var link entity.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *redisFieldValueRepository) SetValue(ctx context.Context, fieldKey string, value *entity.Link) error {
	if value == nil {
		return r.RemoveValue(ctx, fieldKey)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, valueKey(fieldKey), data, 0)
	pipe.Publish(ctx, changesChannel(fieldKey), data)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisFieldValueRepository) RemoveValue(ctx context.Context, fieldKey string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, valueKey(fieldKey))
	pipe.Publish(ctx, changesChannel(fieldKey), "null")
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisFieldValueRepository) Subscribe(ctx context.Context, fieldKey string) (*ValueSubscription, error) {
	pubsub := r.client.Subscribe(ctx, changesChannel(fieldKey))

	// wait for the subscription to be confirmed so no publish is missed afterwards
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan *entity.Link, 1)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var link *entity.Link
			if err := json.Unmarshal([]byte(msg.Payload), &link); err != nil {
				logrus.WithError(err).WithField("field", fieldKey).Warn("dropping malformed field value change")
				continue
			}
			select {
			case out <- link:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &ValueSubscription{C: out, close: pubsub.Close}, nil
}
