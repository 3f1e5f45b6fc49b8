package manage

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/handler"
	"github.com/jwalitptl/passpay-web/internal/listview"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/notify"
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/httputil"
	"github.com/jwalitptl/passpay-web/pkg/logger"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
)

// Service is the slice of resource.Service a management screen uses.
type Service[T resource.Item, C any, U any] interface {
	List(ctx context.Context, token string, q resource.Query) (*resource.Page[T], error)
	Get(ctx context.Context, token string, id int64) (*T, error)
	Create(ctx context.Context, token string, draft C) (*T, error)
	Update(ctx context.Context, token string, id int64, draft U) (*T, error)
	Delete(ctx context.Context, token string, id int64) error
	Restore(ctx context.Context, token string, id int64) error
}

// Texts are the visible strings of one management screen.
type Texts struct {
	Title             string
	Heading           string
	NewLabel          string
	SearchPlaceholder string
	DeleteConfirm     string
	StatusAll         string
	DetailTitle       string
	CreateTitle       string
	EditTitle         string
	DetailError       string
	Stats             view.StatLabels
	Messages          listview.Messages
}

// Resource describes how one resource is listed, shown and edited.
type Resource[T resource.Item, C any, U any] interface {
	Texts() Texts
	Columns() []string
	Cells(item T) []view.Cell
	Detail(item T) view.Detail
	CreateForm(c *gin.Context) view.Form
	EditForm(item T) view.Form
	ParseCreate(c *gin.Context) (C, error)
	// ParseUpdate returns a draft holding only the fields that differ
	// from baseline.
	ParseUpdate(c *gin.Context, baseline T) (U, error)
}

// Handler serves the /admin/<name> screens of one resource.
type Handler[T resource.Item, C any, U any] struct {
	name    string
	svc     Service[T, C, U]
	res     Resource[T, C, U]
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewHandler[T resource.Item, C any, U any](name string, svc Service[T, C, U], res Resource[T, C, U], log *logger.Logger, m *metrics.Metrics) *Handler[T, C, U] {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler[T, C, U]{
		name:    name,
		svc:     svc,
		res:     res,
		log:     log.With("manage." + name),
		metrics: m,
	}
}

func (h *Handler[T, C, U]) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/" + h.name)
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/new", h.New)
		g.GET("/:id", h.Show)
		g.POST("/:id", h.Update)
		g.GET("/:id/edit", h.Edit)
		g.POST("/:id/delete", h.Delete)
		g.POST("/:id/restore", h.Restore)
	}
}

// state is the per-session screen of this resource. It lives in a session
// scope, so logout discards it.
type state[T resource.Item] struct {
	screen *listview.Screen[T]

	mu        sync.Mutex
	baselines map[int64]T
	// fresh is set after a mutation reloaded the list, so the redirected
	// GET can show that result without fetching again.
	fresh bool
}

func (h *Handler[T, C, U]) state(c *gin.Context) *state[T] {
	sess := handler.Session(c)
	v := sess.Scope("manage:"+h.name, func() interface{} {
		fetch := func(ctx context.Context, q resource.Query) (*resource.Page[T], error) {
			return h.svc.List(ctx, sess.Token(), q)
		}
		return &state[T]{
			screen: listview.NewScreen[T](fetch, listview.Options{
				Name:     h.name,
				Messages: h.res.Texts().Messages,
				Notifier: sess.Notifications(),
				Logger:   h.log,
				Metrics:  h.metrics,
			}),
			baselines: make(map[int64]T),
		}
	})
	return v.(*state[T])
}

func (s *state[T]) load(ctx context.Context, q resource.Query) (listview.View[T], error) {
	s.mu.Lock()
	fresh := s.fresh
	s.fresh = false
	s.mu.Unlock()

	if fresh {
		if v := s.screen.View(); v.Loaded && v.Query.Key() == q.Key() {
			return v, nil
		}
	}
	return s.screen.Load(ctx, q)
}

// markFresh lets the next GET reuse the list, unless the reload after the
// mutation failed.
func (s *state[T]) markFresh() {
	if !s.screen.Current() {
		return
	}
	s.mu.Lock()
	s.fresh = true
	s.mu.Unlock()
}

func (s *state[T]) setBaseline(id int64, item T) {
	s.mu.Lock()
	s.baselines[id] = item
	s.mu.Unlock()
}

func (s *state[T]) baseline(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.baselines[id]
	return item, ok
}

func (s *state[T]) dropBaseline(id int64) {
	s.mu.Lock()
	delete(s.baselines, id)
	s.mu.Unlock()
}

// find returns the row currently listed under id.
func (s *state[T]) find(id int64) (T, bool) {
	for _, item := range s.screen.View().Items {
		if item.Identifier() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (h *Handler[T, C, U]) List(c *gin.Context) {
	var q resource.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		q = resource.Query{Search: c.Query("search"), Status: c.Query("status")}
	}

	v, err := h.state(c).load(c.Request.Context(), q)
	if httputil.WantsJSON(c) {
		if err != nil {
			handler.Session(c).Notifications().Drain()
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithPagination(c, v.Items, v.CurrentPage, len(v.Items), v.TotalPages, v.Stats)
		return
	}

	handler.Render(c, http.StatusOK, "manage_list", h.res.Texts().Title, h.listView(v))
}

func (h *Handler[T, C, U]) listView(v listview.View[T]) view.List {
	t := h.res.Texts()
	rows := make([]view.Row, 0, len(v.Items))
	for _, item := range v.Items {
		rows = append(rows, view.Row{
			ID:     item.Identifier(),
			Cells:  h.res.Cells(item),
			Status: item.State(),
			Active: model.Active(item.State()),
			Action: actionName(listview.RowAction(item)),
		})
	}
	return view.List{
		Resource:          h.name,
		Heading:           t.Heading,
		NewLabel:          t.NewLabel,
		SearchPlaceholder: t.SearchPlaceholder,
		DeleteConfirm:     t.DeleteConfirm,
		Columns:           h.res.Columns(),
		Rows:              rows,
		Stats:             v.Stats,
		Labels:            t.Stats,
		Query:             v.Query,
		StatusOptions:     view.StatusOptions(v.Query, t.StatusAll),
		CurrentPage:       v.CurrentPage,
		TotalPages:        v.TotalPages,
	}
}

// Show always fetches the record afresh rather than reusing the list row.
func (h *Handler[T, C, U]) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		handler.NotFound(c)
		return
	}

	item, err := h.svc.Get(c.Request.Context(), handler.Session(c).Token(), id)
	if err != nil {
		h.loadFailed(c, err, h.res.Texts().DetailError)
		return
	}
	if httputil.WantsJSON(c) {
		httputil.RespondWithSuccess(c, "", item)
		return
	}

	d := h.res.Detail(*item)
	d.Resource = h.name
	d.ID = id
	d.Status = (*item).State()
	d.Action = actionName(listview.RowAction(*item))
	handler.Render(c, http.StatusOK, "manage_detail", h.res.Texts().DetailTitle, d)
}

func (h *Handler[T, C, U]) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, h.createForm(c), h.res.Texts().CreateTitle)
}

func (h *Handler[T, C, U]) createForm(c *gin.Context) view.Form {
	f := h.res.CreateForm(c)
	f.Resource = h.name
	f.Heading = h.res.Texts().CreateTitle
	f.Action = h.base()
	if f.Submit == "" {
		f.Submit = "Créer"
	}
	return f
}

func (h *Handler[T, C, U]) Create(c *gin.Context) {
	st := h.state(c)
	token := handler.Session(c).Token()

	draft, err := h.res.ParseCreate(c)
	if err != nil {
		handler.Session(c).Notifications().Error("Erreur", errors.UserMessage(err, h.res.Texts().Messages.CreateError))
	} else {
		err = st.screen.Mutate(c.Request.Context(), listview.ActionCreate, func(ctx context.Context) error {
			_, err := h.svc.Create(ctx, token, draft)
			return err
		})
	}

	if err != nil {
		if h.respondJSON(c, err) {
			return
		}
		h.renderForm(c, http.StatusUnprocessableEntity, refill(h.createForm(c), c), h.res.Texts().CreateTitle)
		return
	}
	st.markFresh()
	h.done(c, st)
}

func (h *Handler[T, C, U]) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		handler.NotFound(c)
		return
	}

	item, err := h.svc.Get(c.Request.Context(), handler.Session(c).Token(), id)
	if err != nil {
		h.loadFailed(c, err, h.res.Texts().DetailError)
		return
	}
	h.state(c).setBaseline(id, *item)
	h.renderForm(c, http.StatusOK, h.editForm(id, *item), h.res.Texts().EditTitle)
}

func (h *Handler[T, C, U]) editForm(id int64, item T) view.Form {
	f := h.res.EditForm(item)
	f.Resource = h.name
	f.Heading = h.res.Texts().EditTitle
	f.Action = h.base() + "/" + strconv.FormatInt(id, 10)
	if f.Submit == "" {
		f.Submit = "Enregistrer"
	}
	return f
}

// Update diffs the submitted form against the record as it was when the
// edit form was opened.
func (h *Handler[T, C, U]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		handler.NotFound(c)
		return
	}
	st := h.state(c)
	token := handler.Session(c).Token()

	baseline, ok := st.baseline(id)
	if !ok {
		item, err := h.svc.Get(c.Request.Context(), token, id)
		if err != nil {
			h.loadFailed(c, err, h.res.Texts().Messages.UpdateError)
			return
		}
		baseline = *item
	}

	draft, err := h.res.ParseUpdate(c, baseline)
	if err != nil {
		handler.Session(c).Notifications().Error("Erreur", errors.UserMessage(err, h.res.Texts().Messages.UpdateError))
	} else {
		err = st.screen.Mutate(c.Request.Context(), listview.ActionUpdate, func(ctx context.Context) error {
			_, err := h.svc.Update(ctx, token, id, draft)
			return err
		})
	}

	if err != nil {
		if h.respondJSON(c, err) {
			return
		}
		h.renderForm(c, http.StatusUnprocessableEntity, refill(h.editForm(id, baseline), c), h.res.Texts().EditTitle)
		return
	}
	st.dropBaseline(id)
	st.markFresh()
	h.done(c, st)
}

func (h *Handler[T, C, U]) Delete(c *gin.Context) {
	h.transition(c, listview.ActionDelete)
}

func (h *Handler[T, C, U]) Restore(c *gin.Context) {
	h.transition(c, listview.ActionRestore)
}

// transition applies delete or restore, refusing the one the row's state
// does not offer.
func (h *Handler[T, C, U]) transition(c *gin.Context, action listview.Action) {
	id, ok := parseID(c)
	if !ok {
		handler.NotFound(c)
		return
	}
	st := h.state(c)
	sess := handler.Session(c)
	token := sess.Token()

	item, ok := st.find(id)
	if !ok {
		fetched, err := h.svc.Get(c.Request.Context(), token, id)
		if err != nil {
			h.loadFailed(c, err, h.res.Texts().DetailError)
			return
		}
		item = *fetched
	}

	if !listview.Allowed(action, item) {
		err := errors.Validation("Action non disponible pour cet élément")
		sess.Notifications().Error("Erreur", err.Message)
		if h.respondJSON(c, err) {
			return
		}
		handler.SeeOther(c, h.listURL(st))
		return
	}

	err := st.screen.Mutate(c.Request.Context(), action, func(ctx context.Context) error {
		if action == listview.ActionDelete {
			return h.svc.Delete(ctx, token, id)
		}
		return h.svc.Restore(ctx, token, id)
	})
	if err != nil {
		if h.respondJSON(c, err) {
			return
		}
		handler.SeeOther(c, h.listURL(st))
		return
	}
	st.markFresh()
	h.done(c, st)
}

func (h *Handler[T, C, U]) done(c *gin.Context, st *state[T]) {
	if httputil.WantsJSON(c) {
		httputil.RespondWithSuccess(c, lastMessage(handler.Session(c).Notifications().Drain()), nil)
		return
	}
	handler.SeeOther(c, h.listURL(st))
}

// respondJSON answers a failed call for script clients. It reports false
// for browsers, which get a page instead.
func (h *Handler[T, C, U]) respondJSON(c *gin.Context, err error) bool {
	if !httputil.WantsJSON(c) {
		return false
	}
	handler.Session(c).Notifications().Drain()
	httputil.RespondWithError(c, err)
	return true
}

func (h *Handler[T, C, U]) loadFailed(c *gin.Context, err error, fallback string) {
	if h.respondJSON(c, err) {
		return
	}
	handler.Session(c).Notifications().Error("Erreur", errors.UserMessage(err, fallback))
	handler.SeeOther(c, h.listURL(h.state(c)))
}

func (h *Handler[T, C, U]) renderForm(c *gin.Context, status int, f view.Form, title string) {
	handler.Render(c, status, "manage_form", title, f)
}

func (h *Handler[T, C, U]) base() string {
	return "/admin/" + h.name
}

// listURL returns to the list with the filters the screen last used.
func (h *Handler[T, C, U]) listURL(st *state[T]) string {
	q := st.screen.Query()
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if len(v) == 0 {
		return h.base()
	}
	return h.base() + "?" + v.Encode()
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func actionName(a listview.Action) string {
	if a == listview.ActionDelete {
		return "delete"
	}
	return "restore"
}

func lastMessage(notes []notify.Notification) string {
	if len(notes) == 0 {
		return ""
	}
	return notes[len(notes)-1].Message
}
