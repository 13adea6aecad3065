package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (chi.Router, *Service) {
	t.Helper()
	svc, _ := newTestService(t)
	h := NewHandlers(svc)

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.With(RequireAuth(svc)).Get("/auth/me", h.Me)
	return r, svc
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := newAuthRouter(t)

	body := `{"name":"Asha","email":"asha@example.com","password":"correct horse"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, RoleBuyer, resp.User.Role)

	// Same email again conflicts.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterEndpointValidation(t *testing.T) {
	r, _ := newAuthRouter(t)

	cases := []string{
		`{"email":"asha@example.com","password":"correct horse"}`,
		`{"name":"Asha","email":"not-an-email","password":"correct horse"}`,
		`{"name":"Asha","email":"asha@example.com","password":"short"}`,
		`{"name":"Asha","email":"asha@example.com","password":"correct horse","role":"superuser"}`,
		`not json`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestLoginAndMeEndpoints(t *testing.T) {
	r, _ := newAuthRouter(t)

	register := `{"name":"Asha","email":"asha@example.com","password":"correct horse"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(register)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"asha@example.com","password":"correct horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var login LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		User User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "asha@example.com", me.User.Email)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"asha@example.com","password":"wrong"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
