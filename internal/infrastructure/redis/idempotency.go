package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idem:"
	defaultTTL           = 24 * time.Hour
)

// IdempotencyStore registra llaves Idempotency-Key ya usadas (SETNX con TTL).
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewClient construye el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewIdempotencyStore ttl <= 0 usa 24h.
func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserva la llave. Retorna false si ya fue usada dentro del TTL.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release libera la llave para permitir reintentos (el lote no llegó a procesarse).
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
