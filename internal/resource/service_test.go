package resource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/errors"
)

type widget struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type createWidget struct {
	Name  string `json:"name" label:"nom" validate:"required"`
	Color string `json:"color" label:"couleur" validate:"required"`
}

type updateWidget struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
	Form   map[string]string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	reply    string
}

func (b *fakeBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.MultipartForm == nil && r.Header.Get("Content-Type") != "" && r.Header.Get("Content-Type") != "application/json" {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			rec.Form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				rec.Form[k] = v[0]
			}
		} else {
			raw, _ := io.ReadAll(r.Body)
			rec.Body = string(raw)
		}
		b.mu.Lock()
		b.requests = append(b.requests, rec)
		reply := b.reply
		b.mu.Unlock()
		_, _ = io.WriteString(w, reply)
	}
}

func (b *fakeBackend) all() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recorded(nil), b.requests...)
}

func newWidgets(t *testing.T, endpoint Endpoint, reply string) (*Service[widget, createWidget, updateWidget], *fakeBackend) {
	t.Helper()
	b := &fakeBackend{reply: reply}
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second})
	svc := NewService[widget, createWidget, updateWidget](client, endpoint, nil,
		func(c createWidget) (apiclient.Body, error) { return apiclient.JSON(c), nil },
		func(u updateWidget) (apiclient.Body, error) { return apiclient.JSON(u), nil },
	)
	return svc, b
}

var widgets = Endpoint{Name: "widgets", Path: "/admin/widget", ListKey: "widgets", DetailKey: "widget"}

func TestListDecodesPageAndCounters(t *testing.T) {
	svc, _ := newWidgets(t, widgets, `{"status":true,"message":"","data":{
		"widgets":[{"id":1,"name":"a","status":"Actif"},{"id":2,"name":"b","status":"Inactif"}],
		"current_page":2,"last_page":5,"per_page":2,"total":10,"total_actifs":7,"total_inactifs":3,"new_this_month":4}}`)

	page, err := svc.List(context.Background(), "tok", Query{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, 10, page.Stats.Total)
	assert.Equal(t, 7, page.Stats.TotalActive)
	assert.Equal(t, 3, page.Stats.TotalInactive)
	assert.Equal(t, 4, page.Stats.NewThisMonth)
}

func TestListEmptyData(t *testing.T) {
	svc, _ := newWidgets(t, widgets, `{"status":true,"message":"","data":{"widgets":null}}`)
	page, err := svc.List(context.Background(), "tok", Query{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListStatusAllIsNeverSent(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"data":{"widgets":[]}}`)
	ctx := context.Background()

	_, err := svc.List(ctx, "tok", Query{Page: 1, Search: "martin", Status: StatusAll})
	require.NoError(t, err)
	_, err = svc.List(ctx, "tok", Query{Page: 1, Search: "martin"})
	require.NoError(t, err)
	_, err = svc.List(ctx, "tok", Query{Search: "  ", Status: "ALL"})
	require.NoError(t, err)

	reqs := b.all()
	require.Len(t, reqs, 3)
	assert.Equal(t, reqs[0], reqs[1])
	assert.NotContains(t, reqs[0].Query, "status")
	assert.Equal(t, "page=1&search=martin", reqs[0].Query)
	assert.Equal(t, "", reqs[2].Query)
}

func TestListStatusFilterSent(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"data":{"widgets":[]}}`)
	_, err := svc.List(context.Background(), "tok", Query{Status: "Inactif"})
	require.NoError(t, err)
	assert.Equal(t, "status=Inactif", b.all()[0].Query)
}

func TestGetUnwrapsDetailKey(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"data":{"widget":{"id":9,"name":"nine","status":"Actif"}}}`)
	w, err := svc.Get(context.Background(), "tok", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), w.ID)
	assert.Equal(t, "nine", w.Name)
	assert.Equal(t, "/api/admin/widget/9", b.all()[0].Path)
}

func TestGetWithoutDetailKey(t *testing.T) {
	flat := widgets
	flat.DetailKey = ""
	svc, _ := newWidgets(t, flat, `{"status":true,"data":{"id":3,"name":"three"}}`)
	w, err := svc.Get(context.Background(), "tok", 3)
	require.NoError(t, err)
	assert.Equal(t, "three", w.Name)
}

func TestCreateValidatesBeforeRequest(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"data":{}}`)

	_, err := svc.Create(context.Background(), "tok", createWidget{Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "couleur")
	assert.Empty(t, b.all())
}

func TestCreateSendsDraft(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"data":{"id":4,"name":"x","status":"Actif"}}`)

	w, err := svc.Create(context.Background(), "tok", createWidget{Name: "x", Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), w.ID)

	req := b.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/admin/widget", req.Path)
	assert.JSONEq(t, `{"name":"x","color":"red"}`, req.Body)
}

func TestUpdateSendsOnlySetFields(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"data":{"id":4,"name":"X"}}`)
	name := "X"

	_, err := svc.Update(context.Background(), "tok", 4, updateWidget{Name: &name})
	require.NoError(t, err)

	req := b.all()[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/admin/widget/4", req.Path)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(req.Body), &sent))
	assert.Equal(t, map[string]interface{}{"name": "X"}, sent)
}

func TestUpdateMethodOverride(t *testing.T) {
	b := &fakeBackend{reply: `{"status":true,"data":{"id":1}}`}
	srv := httptest.NewServer(b.handler(t))
	defer srv.Close()

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second})
	svc := NewService[widget, createWidget, updateWidget](client,
		Endpoint{Name: "users", Path: "/users", ListKey: "users", MethodOverride: http.MethodPut}, nil,
		func(c createWidget) (apiclient.Body, error) { return apiclient.NewForm().Set("name", c.Name), nil },
		func(u updateWidget) (apiclient.Body, error) {
			f := apiclient.NewForm()
			if u.Name != nil {
				f.Set("name", *u.Name)
			}
			return f, nil
		},
	)

	name := "Ana"
	_, err := svc.Update(context.Background(), "tok", 1, updateWidget{Name: &name})
	require.NoError(t, err)

	req := b.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, map[string]string{"_method": "PUT", "name": "Ana"}, req.Form)
}

func TestDeleteAndRestore(t *testing.T) {
	svc, b := newWidgets(t, widgets, `{"status":true,"message":"ok","data":null}`)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "tok", 5))
	require.NoError(t, svc.Restore(ctx, "tok", 5))

	reqs := b.all()
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/api/admin/widget/5", reqs[0].Path)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/api/admin/widget/restore/5", reqs[1].Path)
}

func TestBackendMessageSurfacesVerbatim(t *testing.T) {
	svc, _ := newWidgets(t, widgets, `{"status":false,"message":"Ce widget est déjà inactif"}`)
	err := svc.Delete(context.Background(), "tok", 5)
	require.Error(t, err)
	assert.Equal(t, "Ce widget est déjà inactif", errors.UserMessage(err, ""))
}

func TestQueryKey(t *testing.T) {
	assert.Equal(t, Query{Page: 1, Status: "all"}.Key(), Query{Page: 1}.Key())
	assert.NotEqual(t, Query{Page: 1}.Key(), Query{Page: 2}.Key())
	assert.Equal(t, StatusAll, Query{}.StatusOrAll())
	assert.Equal(t, "Actif", Query{Status: "Actif"}.StatusOrAll())
}
