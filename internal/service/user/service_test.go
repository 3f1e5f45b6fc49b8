package user

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/errors"
)

func TestCreateUserMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/users-management/users-management", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ana", r.FormValue("name"))
		assert.Equal(t, "patient", r.FormValue("role"))
		assert.Empty(t, r.FormValue("_method"))
		_, _, err := r.FormFile("photo")
		assert.Error(t, err)
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":5,"name":"Ana","status":"Actif"}}`)
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second}), nil)
	u, err := svc.Create(context.Background(), "tok", model.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "pw", Phone: "0600", Role: "patient",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
}

func TestCreateUserRequiresFields(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	svc := NewService(apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second}), nil)
	_, err := svc.Create(context.Background(), "tok", model.CreateUserRequest{Name: "Ana", Email: "ana@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "mot de passe")
	assert.Contains(t, err.Error(), "téléphone")
	assert.Equal(t, 0, calls)
}

func TestUpdateUserOnlyName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/users-management/users-management/5", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, map[string][]string{"name": {"Ana B."}, "_method": {"PUT"}}, r.MultipartForm.Value)
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":5,"name":"Ana B."}}`)
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second}), nil)
	name := "Ana B."
	_, err := svc.Update(context.Background(), "tok", 5, model.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
}
