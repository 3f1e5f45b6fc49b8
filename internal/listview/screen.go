package listview

import (
	"context"
	"sync"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/logger"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
)

// Fetcher loads one page for a query.
type Fetcher[T any] func(ctx context.Context, q resource.Query) (*resource.Page[T], error)

// View is a consistent copy of a screen's state.
type View[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	Stats       model.Stats
	Query       resource.Query
	Loading     bool
	Loaded      bool
	// Current is false after a mutation until a reload succeeds.
	Current    bool
	Generation uint64
	// Stale is set on the result of a load that a newer one superseded.
	Stale bool
}

type Options struct {
	Name     string
	Messages Messages
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

// Screen owns the list state of one management screen. Every load captures
// a generation; a result is applied only if no newer load started since.
type Screen[T any] struct {
	opts  Options
	fetch Fetcher[T]

	mu          sync.Mutex
	items       []T
	currentPage int
	totalPages  int
	stats       model.Stats
	query       resource.Query
	generation  uint64
	inflight    int
	loaded      bool
	current     bool
}

func NewScreen[T any](fetch Fetcher[T], opts Options) *Screen[T] {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Screen[T]{
		opts:        opts,
		fetch:       fetch,
		items:       []T{},
		currentPage: 1,
		totalPages:  1,
	}
}

// Load issues exactly one fetch for q. A failed fetch notifies and keeps
// the previous state.
func (s *Screen[T]) Load(ctx context.Context, q resource.Query) (View[T], error) {
	return s.load(ctx, q, true)
}

// Reload refetches the current query.
func (s *Screen[T]) Reload(ctx context.Context) (View[T], error) {
	return s.load(ctx, s.Query(), true)
}

func (s *Screen[T]) load(ctx context.Context, q resource.Query, notifyFailure bool) (View[T], error) {
	q = q.Normalize()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.query = q
	s.inflight++
	s.mu.Unlock()

	page, err := s.fetch(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if gen != s.generation {
		s.opts.Logger.Debug("discarding superseded list response", "screen", s.opts.Name, "generation", gen, "current", s.generation)
		if s.opts.Metrics != nil {
			s.opts.Metrics.StaleResponses.WithLabelValues(s.opts.Name).Inc()
		}
		v := s.viewLocked()
		v.Stale = true
		return v, nil
	}

	if err != nil {
		if notifyFailure && s.opts.Notifier != nil {
			s.opts.Notifier.Error("Erreur", errors.UserMessage(err, s.opts.Messages.LoadError))
		}
		s.current = false
		return s.viewLocked(), err
	}

	s.items = page.Items
	if s.items == nil {
		s.items = []T{}
	}
	s.currentPage = page.CurrentPage
	s.totalPages = page.TotalPages
	s.stats = page.Stats
	s.loaded = true
	s.current = true
	return s.viewLocked(), nil
}

// Mutate runs a create/update/delete/restore call. Success notifies and
// reloads once; failure notifies with the backend message and leaves the
// list untouched. Each call surfaces exactly one notification. A failed
// reload is only logged and leaves Current false.
func (s *Screen[T]) Mutate(ctx context.Context, action Action, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		s.notify(func(n notify.Notifier) {
			n.Error("Erreur", errors.UserMessage(err, s.opts.Messages.failure(action)))
		})
		return err
	}

	s.mu.Lock()
	s.current = false
	s.mu.Unlock()

	title, text := s.opts.Messages.success(action)
	s.notify(func(n notify.Notifier) { n.Success(title, text) })

	if _, err := s.load(ctx, s.Query(), false); err != nil {
		s.opts.Logger.Warn(err, "reload after mutation failed", "screen", s.opts.Name)
	}
	return nil
}

func (s *Screen[T]) notify(fn func(notify.Notifier)) {
	if s.opts.Notifier != nil {
		fn(s.opts.Notifier)
	}
}

func (s *Screen[T]) Query() resource.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Current reports whether the items reflect the backend after the last
// mutation.
func (s *Screen[T]) Current() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Screen[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Screen[T]) viewLocked() View[T] {
	items := make([]T, len(s.items))
	copy(items, s.items)
	return View[T]{
		Items:       items,
		CurrentPage: s.currentPage,
		TotalPages:  s.totalPages,
		Stats:       s.stats,
		Query:       s.query,
		Loading:     s.inflight > 0,
		Loaded:      s.loaded,
		Current:     s.current,
		Generation:  s.generation,
	}
}
