package resource

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

// Client is the slice of *apiclient.Client resource services need.
type Client interface {
	Do(ctx context.Context, r apiclient.Request, out interface{}) error
}

// Item is what list screens need to know about a row.
type Item interface {
	Identifier() int64
	State() string
}

// Endpoint describes one backend resource.
type Endpoint struct {
	Name      string
	Path      string
	ListKey   string
	DetailKey string // non-empty when the detail payload wraps the item
	// MethodOverride, when set, sends updates as POST carrying a _method form
	// field (multipart bodies cannot travel over PUT to this backend).
	MethodOverride string
}

// Encoder maps a draft onto its wire body.
type Encoder[D any] func(D) (apiclient.Body, error)

// Service translates one backend resource into typed CRUD calls. T is the
// item type, C the create draft, U the update draft.
type Service[T any, C any, U any] struct {
	client       Client
	endpoint     Endpoint
	validator    validator.Validator
	encodeCreate Encoder[C]
	encodeUpdate Encoder[U]
}

func NewService[T any, C any, U any](client Client, endpoint Endpoint, v validator.Validator, create Encoder[C], update Encoder[U]) *Service[T, C, U] {
	if v == nil {
		v = validator.New()
	}
	return &Service[T, C, U]{
		client:       client,
		endpoint:     endpoint,
		validator:    v,
		encodeCreate: create,
		encodeUpdate: update,
	}
}

func (s *Service[T, C, U]) Endpoint() Endpoint {
	return s.endpoint
}

type listMeta struct {
	CurrentPage   int `json:"current_page"`
	LastPage      int `json:"last_page"`
	PerPage       int `json:"per_page"`
	Total         int `json:"total"`
	TotalActive   int `json:"total_actifs"`
	TotalInactive int `json:"total_inactifs"`
	NewThisMonth  int `json:"new_this_month"`
}

func (s *Service[T, C, U]) List(ctx context.Context, token string, q Query) (*Page[T], error) {
	var data json.RawMessage
	err := s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Path:     s.endpoint.Path,
		Query:    q.params(),
		Token:    token,
		Endpoint: s.endpoint.Name + ".list",
	}, &data)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{Items: []T{}}
	if len(data) == 0 {
		page.CurrentPage, page.TotalPages = 1, 1
		return page, nil
	}

	var meta listMeta
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Transport("Réponse du serveur invalide", err)
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Transport("Réponse du serveur invalide", err)
	}
	if raw, ok := fields[s.endpoint.ListKey]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return nil, errors.Transport("Réponse du serveur invalide", err)
		}
	}

	page.CurrentPage = max(meta.CurrentPage, 1)
	page.TotalPages = max(meta.LastPage, 1)
	page.PerPage = meta.PerPage
	page.Stats.Total = meta.Total
	page.Stats.TotalActive = meta.TotalActive
	page.Stats.TotalInactive = meta.TotalInactive
	page.Stats.NewThisMonth = meta.NewThisMonth
	return page, nil
}

func (s *Service[T, C, U]) Get(ctx context.Context, token string, id int64) (*T, error) {
	var data json.RawMessage
	err := s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Path:     s.itemPath(id),
		Token:    token,
		Endpoint: s.endpoint.Name + ".get",
	}, &data)
	if err != nil {
		return nil, err
	}

	if s.endpoint.DetailKey != "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err == nil {
			if raw, ok := fields[s.endpoint.DetailKey]; ok {
				data = raw
			}
		}
	}

	item := new(T)
	if err := json.Unmarshal(data, item); err != nil {
		return nil, errors.Transport("Réponse du serveur invalide", err)
	}
	return item, nil
}

// Create validates the draft before anything leaves the process.
func (s *Service[T, C, U]) Create(ctx context.Context, token string, draft C) (*T, error) {
	if err := s.validate(draft); err != nil {
		return nil, err
	}
	body, err := s.encodeCreate(draft)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	item := new(T)
	err = s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Path:     s.endpoint.Path,
		Token:    token,
		Body:     body,
		Endpoint: s.endpoint.Name + ".create",
	}, item)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update sends only the fields set on the draft.
func (s *Service[T, C, U]) Update(ctx context.Context, token string, id int64, draft U) (*T, error) {
	if err := s.validate(draft); err != nil {
		return nil, err
	}
	body, err := s.encodeUpdate(draft)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	method := http.MethodPut
	if s.endpoint.MethodOverride != "" {
		form, ok := body.(*apiclient.Form)
		if !ok {
			return nil, errors.NewInternal(fmt.Errorf("%s: method override needs a form body", s.endpoint.Name))
		}
		form.Set("_method", s.endpoint.MethodOverride)
		method = http.MethodPost
	}

	item := new(T)
	err = s.client.Do(ctx, apiclient.Request{
		Method:   method,
		Path:     s.itemPath(id),
		Token:    token,
		Body:     body,
		Endpoint: s.endpoint.Name + ".update",
	}, item)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete soft-deletes: the item turns inactive and stays listable.
func (s *Service[T, C, U]) Delete(ctx context.Context, token string, id int64) error {
	return s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodDelete,
		Path:     s.itemPath(id),
		Token:    token,
		Endpoint: s.endpoint.Name + ".delete",
	}, nil)
}

func (s *Service[T, C, U]) Restore(ctx context.Context, token string, id int64) error {
	return s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPut,
		Path:     s.endpoint.Path + "/restore/" + strconv.FormatInt(id, 10),
		Token:    token,
		Endpoint: s.endpoint.Name + ".restore",
	}, nil)
}

func (s *Service[T, C, U]) itemPath(id int64) string {
	return s.endpoint.Path + "/" + strconv.FormatInt(id, 10)
}

func (s *Service[T, C, U]) validate(draft interface{}) error {
	err := s.validator.Validate(draft)
	if err == nil {
		return nil
	}
	var fe *validator.FieldError
	if stderrors.As(err, &fe) {
		return errors.Validation(fe.Error())
	}
	return errors.Validation(err.Error())
}
