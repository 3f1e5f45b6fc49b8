package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jwalitptl/passpay-web/internal/model"
)

// Persisted keys. They are always written together and cleared together.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
	KeyRole  = "user_role"
)

var ErrPartialRecord = errors.New("session: persisted record is incomplete")

// Persisted is the durable subset of a session.
type Persisted struct {
	Token string
	User  *model.User
	Role  string
}

// Storage keeps Persisted records by session id. Load returns nil, nil when
// nothing is stored.
type Storage interface {
	Load(ctx context.Context, sid string) (*Persisted, error)
	Save(ctx context.Context, sid string, p Persisted, ttl time.Duration) error
	Clear(ctx context.Context, sid string) error
}

func encode(p Persisted) (map[string]string, error) {
	if p.Token == "" || p.User == nil {
		return nil, ErrPartialRecord
	}
	user, err := json.Marshal(p.User)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyToken: p.Token,
		KeyUser:  string(user),
		KeyRole:  p.Role,
	}, nil
}

func decode(fields map[string]string) (*Persisted, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	token, okToken := fields[KeyToken]
	raw, okUser := fields[KeyUser]
	role, okRole := fields[KeyRole]
	if !okToken || !okUser || !okRole || token == "" {
		return nil, ErrPartialRecord
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &Persisted{Token: token, User: &user, Role: role}, nil
}
