package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
)

func newTestRouter() (chi.Router, *memStore) {
	svc, store, _ := newTestService()
	h := NewHandlers(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(common.WithUserID(req.Context(), "u1")))
		})
	})
	r.Get("/cart", h.Get)
	r.Post("/cart", h.Add)
	r.Delete("/cart/{productId}", h.Remove)
	return r, store
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) View {
	t.Helper()
	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestGetCartEndpointEmpty(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"products":[]}`, rec.Body.String())
}

func TestAddEndpointDefaultsQuantityToOne(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"productId":"p1"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeView(t, rec)
	require.Len(t, view.Products, 1)
	require.Equal(t, int64(1), view.Products[0].Quantity)
}

func TestAddEndpointMergesOnRepeat(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"productId":"p1","quantity":2}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"productId":"p1","quantity":3}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeView(t, rec)
	require.Len(t, view.Products, 1)
	require.Equal(t, int64(5), view.Products[0].Quantity)
}

func TestAddEndpointRejectsBadPayloads(t *testing.T) {
	r, _ := newTestRouter()

	cases := []string{
		`{"quantity":1}`,
		`{"productId":"p1","quantity":0}`,
		`{"productId":"p1","quantity":-4}`,
		`not json`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestRemoveEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart/p1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"productId":"p1"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart/p1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeView(t, rec).Products)

	// Cart document survives, repeat removal stays 200.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart/p1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandlers(svc)

	r := chi.NewRouter()
	r.Get("/cart", h.Get)
	r.Post("/cart", h.Add)
	r.Delete("/cart/{productId}", h.Remove)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart"},
		{http.MethodDelete, "/cart/p1"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"productId":"p1"}`)))
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}
