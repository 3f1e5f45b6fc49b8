package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: time.Second, BreakerFailures: 3, BreakerTimeout: time.Minute}), srv
}

func TestDoDecodesEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"status":true,"message":"ok","data":{"id":7,"name":"Ana"}}`)
	})

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	err := c.Do(context.Background(), Request{Path: "/users/me", Token: "tok"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "Ana", out.Name)
}

func TestDoNoTokenNoAuthorizationHeader(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"status":true,"message":"","data":null}`)
	})
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login"}, nil))
}

func TestDoFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    errors.ErrorCode
		message string
	}{
		{name: "status false on 200", status: 200, body: `{"status":false,"message":"Identifiants invalides"}`, code: errors.ErrApplication, message: "Identifiants invalides"},
		{name: "401 envelope", status: 401, body: `{"status":false,"message":"Non authentifié"}`, code: errors.ErrUnauthorized, message: "Non authentifié"},
		{name: "404 envelope", status: 404, body: `{"status":false,"message":"Introuvable"}`, code: errors.ErrNotFound, message: "Introuvable"},
		{name: "500 without envelope", status: 500, body: `<html>oops</html>`, code: errors.ErrTransport, message: "Erreur HTTP 500"},
		{name: "200 garbage", status: 200, body: `not json`, code: errors.ErrTransport, message: "Réponse du serveur invalide"},
		{name: "422 without message", status: 422, body: `{"status":false}`, code: errors.ErrApplication, message: "Erreur HTTP 422"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.Do(context.Background(), Request{Path: "/x"}, nil)
			require.Error(t, err)
			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestDoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(Config{BaseURL: srv.URL, Timeout: time.Second})

	err := c.Do(context.Background(), Request{Path: "/users/me"}, nil)
	assert.True(t, errors.Is(err, errors.ErrTransport))
}

func TestBreakerOpensOnTransportFailures(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		err := c.Do(context.Background(), Request{Path: "/x"}, nil)
		assert.True(t, errors.Is(err, errors.ErrTransport))
	}
	assert.Equal(t, 3, calls)
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, `{"status":true}`)
	})

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancelExpired()
	<-expired.Done()

	for i := 0; i < 5; i++ {
		for _, ctx := range []context.Context{canceled, expired} {
			err := c.Do(ctx, Request{Path: "/x"}, nil)
			assert.True(t, errors.Is(err, errors.ErrTransport))
		}
	}
	assert.Zero(t, calls)

	require.NoError(t, c.Do(context.Background(), Request{Path: "/x"}, nil))
	assert.Equal(t, 1, calls)
}

func TestBreakerIgnoresApplicationFailures(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, `{"status":false,"message":"non"}`)
	})

	for i := 0; i < 5; i++ {
		_ = c.Do(context.Background(), Request{Path: "/x"}, nil)
	}
	assert.Equal(t, 5, calls)
}

func TestQueryOmitsEmptyValues(t *testing.T) {
	var got []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"status":true,"data":null}`)
	})

	ctx := context.Background()
	require.NoError(t, c.Do(ctx, Request{Path: "/x", Query: Params{"page": "2", "search": "", "status": ""}}, nil))
	require.NoError(t, c.Do(ctx, Request{Path: "/x", Query: Params{"page": "2"}}, nil))
	require.NoError(t, c.Do(ctx, Request{Path: "/x"}, nil))

	assert.Equal(t, []string{"page=2", "page=2", ""}, got)
}

func TestJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, map[string]string{"email": "a@b.io"}, in)
		_, _ = io.WriteString(w, `{"status":true,"data":null}`)
	})
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPut, Path: "/users/me/update-info", Body: JSON(map[string]string{"email": "a@b.io"})}, nil))
}

func TestFormBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "PUT", r.FormValue("_method"))
		assert.Equal(t, "Ana", r.FormValue("name"))
		f, hdr, err := r.FormFile("photo")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "me.png", hdr.Filename)
		content, _ := io.ReadAll(f)
		assert.Equal(t, "png-bytes", string(content))
		_, _ = io.WriteString(w, `{"status":true,"data":null}`)
	})

	form := NewForm().
		Set("_method", "PUT").
		Set("name", "Ana").
		File("photo", File{Name: "me.png", Content: []byte("png-bytes")}).
		File("ignored", File{})
	assert.Equal(t, []string{"_method", "name"}, form.Keys())

	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/users/users-management/users-management/1", Body: form}, nil))
}
