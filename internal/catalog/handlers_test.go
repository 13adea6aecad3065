package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
)

func newCatalogRouter(sellerID string) (chi.Router, *fakeStore) {
	store := newFakeStore()
	h := NewHandlers(NewService(store, nil, zerolog.Nop()))

	r := chi.NewRouter()
	if sellerID != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(common.WithUserID(req.Context(), sellerID)))
			})
		})
	}
	r.Get("/products", h.List)
	r.Get("/products/mine", h.ListMine)
	r.Post("/products", h.Create)
	r.Get("/products/{id}", h.Get)
	r.Patch("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
	r.Get("/products/{id}/contact", h.ContactSeller)
	return r, store
}

func TestCreateAndListEndpoints(t *testing.T) {
	r, _ := newCatalogRouter("s1")

	body := `{"title":"Tower crane","description":"40m reach","price":250000,` +
		`"category":"crane","location":"Dhaka","images":["https://img.example/1.jpg"]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	require.Equal(t, "Tower crane", resp.Products[0].Title)
}

func TestCreateEndpointValidation(t *testing.T) {
	r, _ := newCatalogRouter("s1")

	cases := []string{
		`{"description":"d","price":10,"category":"c","location":"l"}`,
		`{"title":"t","description":"d","price":-1,"category":"c","location":"l"}`,
		`{"title":"t","description":"d","price":10,"category":"c","location":"l","images":["not a url"]}`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestUpdateEndpointOwnership(t *testing.T) {
	r, store := newCatalogRouter("s2")
	product := store.seed("s1", "Crane")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/"+product.ID, strings.NewReader(`{"title":"Mine now"}`)))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/missing", strings.NewReader(`{"title":"x"}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactSellerEndpoint(t *testing.T) {
	r, store := newCatalogRouter("buyer-1")
	product := store.seed("s1", "Crane")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+product.ID+"/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Contact SellerContact `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "s1@example.com", resp.Contact.SellerEmail)
}
