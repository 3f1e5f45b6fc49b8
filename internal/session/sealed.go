package session

import (
	"context"
	"time"

	"github.com/jwalitptl/passpay-web/pkg/security"
)

// sealedStorage encrypts the bearer token before it reaches the inner store.
type sealedStorage struct {
	inner Storage
	enc   security.Encryptor
}

// Sealed wraps inner so tokens are stored encrypted.
func Sealed(inner Storage, enc security.Encryptor) Storage {
	return &sealedStorage{inner: inner, enc: enc}
}

func (s *sealedStorage) Load(ctx context.Context, sid string) (*Persisted, error) {
	p, err := s.inner.Load(ctx, sid)
	if err != nil || p == nil {
		return p, err
	}
	token, err := security.OpenString(s.enc, p.Token)
	if err != nil {
		return nil, err
	}
	p.Token = token
	return p, nil
}

func (s *sealedStorage) Save(ctx context.Context, sid string, p Persisted, ttl time.Duration) error {
	token, err := security.SealString(s.enc, p.Token)
	if err != nil {
		return err
	}
	p.Token = token
	return s.inner.Save(ctx, sid, p, ttl)
}

func (s *sealedStorage) Clear(ctx context.Context, sid string) error {
	return s.inner.Clear(ctx, sid)
}
