package redis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idem:"
	pendingMarker        = "pending"
	donePrefix           = "done:"
)

// IdempotencyStore registra claves Idempotency-Key con TTL: Claim reclama la clave,
// Complete guarda la respuesta para repetirla y Release la libera si la petición falló.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewIdempotencyStore construye el store sobre un cliente de Redis.
func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim devuelve true si la clave no existía y quedó reservada (SET NX).
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, idempotencyKeyPrefix+key, pendingMarker, s.ttl).Result()
}

// Response devuelve la respuesta guardada; ok=false si la clave no existe o sigue en curso.
func (s *IdempotencyStore) Response(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	payload, done := strings.CutPrefix(val, donePrefix)
	if !done {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// Complete reemplaza la marca pendiente por la respuesta final y renueva el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, response []byte) error {
	return s.client.Set(ctx, idempotencyKeyPrefix+key, donePrefix+string(response), s.ttl).Err()
}

// Release borra la clave para permitir reintentos.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

// MemoryIdempotencyStore misma semántica en memoria del proceso; se usa sin REDIS_ADDR.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	response  []byte
	done      bool
	expiresAt time.Time
}

// NewMemoryIdempotencyStore construye el store en memoria.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *MemoryIdempotencyStore) Claim(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = memoryEntry{expiresAt: s.now().Add(s.ttl)}
	return true, nil
}

func (s *MemoryIdempotencyStore) Response(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok || !e.done {
		return nil, false, nil
	}
	return append([]byte(nil), e.response...), true, nil
}

func (s *MemoryIdempotencyStore) Complete(_ context.Context, key string, response []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		response:  append([]byte(nil), response...),
		done:      true,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// live devuelve la entrada si no expiró; las vencidas se purgan al consultarlas. Requiere mu.
func (s *MemoryIdempotencyStore) live(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}
