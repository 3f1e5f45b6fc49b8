package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage keeps records in process. It backs single-instance
// deployments and tests.
type MemoryStorage struct {
	c *cache.Cache
}

func NewMemoryStorage(cleanup time.Duration) *MemoryStorage {
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryStorage{c: cache.New(cache.NoExpiration, cleanup)}
}

func (m *MemoryStorage) Load(_ context.Context, sid string) (*Persisted, error) {
	v, ok := m.c.Get(sid)
	if !ok {
		return nil, nil
	}
	fields, _ := v.(map[string]string)
	return decode(fields)
}

func (m *MemoryStorage) Save(_ context.Context, sid string, p Persisted, ttl time.Duration) error {
	fields, err := encode(p)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	m.c.Set(sid, fields, ttl)
	return nil
}

func (m *MemoryStorage) Clear(_ context.Context, sid string) error {
	m.c.Delete(sid)
	return nil
}

// Raw exposes the stored fields for a session id.
func (m *MemoryStorage) Raw(sid string) (map[string]string, bool) {
	v, ok := m.c.Get(sid)
	if !ok {
		return nil, false
	}
	fields, ok := v.(map[string]string)
	return fields, ok
}
