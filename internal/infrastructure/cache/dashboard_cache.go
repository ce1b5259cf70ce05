// Package cache guarda en Redis el resumen del dashboard durante un TTL corto.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/OrdemServico-api/internal/application/analytics"
	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
)

const (
	dashboardKey        = "ordemservico:dashboard"
	defaultDashboardTTL = 30 * time.Second
)

var (
	_ analytics.DashboardCache = (*DashboardCache)(nil)
	_ appos.CacheInvalidator   = (*DashboardCache)(nil)
)

// DashboardCache cache del dashboard; cada escritura de OS lo invalida.
type DashboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDashboardCache usa un cliente ya creado (ver NewClient).
func NewDashboardCache(client redis.Cmdable, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &DashboardCache{client: client, ttl: ttl}
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Get devuelve ok=false en cache miss.
func (c *DashboardCache) Get(ctx context.Context) (*dto.DashboardDTO, bool, error) {
	data, err := c.client.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out dto.DashboardDTO
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, d *dto.DashboardDTO) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey, data, c.ttl).Err()
}

// Invalidate borra el resumen.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, dashboardKey).Err()
}
