package service

import (
	"context"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

type cachedLocales struct {
	api LocaleAPI
	ttl time.Duration

	mu      sync.Mutex
	value   entity.Locales
	fetched time.Time
}

// NewCachedLocales keeps the environment's locale table for ttl.
func NewCachedLocales(api LocaleAPI, ttl time.Duration) LocaleAPI {
	return &cachedLocales{api: api, ttl: ttl}
}

func (c *cachedLocales) Locales(ctx context.Context) (entity.Locales, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetched.IsZero() && time.Since(c.fetched) < c.ttl {
		return c.value, nil
	}

	locales, err := c.api.Locales(ctx)
	if err != nil {
		return entity.Locales{}, err
	}

	c.value = locales
	c.fetched = time.Now()
	return locales, nil
}
