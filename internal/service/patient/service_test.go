package patient

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
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
)

func newService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewService(apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second}), nil)
}

func TestCreatePatientWithDocuments(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		v := r.MultipartForm.Value
		assert.Equal(t, "7", v["user_id"][0])
		assert.Equal(t, "O+", v["blood_group"][0])
		assert.Equal(t, "172.5", v["height"][0])
		assert.NotContains(t, v, "weight")
		assert.NotContains(t, v, "blood_type")
		assert.Equal(t, "Ordonnance", v["documents[0][title]"][0])
		assert.Equal(t, "prescription", v["documents[0][type]"][0])
		_, hdr, err := r.FormFile("documents[0][file]")
		require.NoError(t, err)
		assert.Equal(t, "ordo.pdf", hdr.Filename)
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":1,"first_name":"Jean","last_name":"Martin","status":"Actif"}}`)
	})

	height := 172.5
	p, err := svc.Create(context.Background(), "tok", model.CreatePatientRequest{
		UserID: 7, FirstName: "Jean", LastName: "Martin", BirthDate: "1980-05-01", Gender: "male",
		BloodGroup: "O+", Height: &height,
		Documents: []model.DocumentUpload{{Title: "Ordonnance", Type: "prescription", File: model.Upload{Name: "ordo.pdf", Content: []byte("%PDF")}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jean Martin", p.FullName())
}

func TestCreatePatientMissingUser(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := svc.Create(context.Background(), "tok", model.CreatePatientRequest{FirstName: "Jean", LastName: "Martin", BirthDate: "1980-05-01", Gender: "male"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utilisateur")
}

func TestUpdatePatientPatch(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/admin/patient/3", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, map[string][]string{"last_name": {"Dupont"}}, r.MultipartForm.Value)
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":3}}`)
	})
	last := "Dupont"
	_, err := svc.Update(context.Background(), "tok", 3, model.UpdatePatientRequest{LastName: &last})
	require.NoError(t, err)
}

func TestGetPatientUnwrapsDetail(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":true,"data":{"patient":{"id":3,"first_name":"Jean","documents":[{"id":1,"title":"Radio","type":"image","file_path":"docs/r.png"}]}}}`)
	})
	p, err := svc.Get(context.Background(), "tok", 3)
	require.NoError(t, err)
	require.Len(t, p.Documents, 1)
	assert.Equal(t, "docs/r.png", p.Documents[0].Ref())
}

func TestListPatients(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "search=martin", r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"status":true,"data":{"patients":[{"id":1,"first_name":"Jean","status":"Inactif"}],"current_page":1,"last_page":1,"total":1,"total_inactifs":1}}`)
	})
	page, err := svc.List(context.Background(), "tok", resource.Query{Search: "martin", Status: resource.StatusAll})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.StatusInactive, page.Items[0].State())
}
