package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/internal/services"
	"github.com/HerbHall/shopfind/internal/testutil"
	"github.com/HerbHall/shopfind/pkg/models"
)

const legacyCatalogJSON = `[
  {"_id":"a1","productName":"Red Shoe","category":"Footwear","productPrice":1299,"productImage":"red.jpg","status":"In Status","views":10},
  {"_id":"a2","productName":"Green Hat","category":"Apparel","productPrice":"12.50","productImage":"hat.jpg","status":"Out of Stock","views":"7"},
  {"_id":"a3","productName":"Mystery Box","productPrice":null}
]`

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(legacyCatalogJSON))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/api/products", time.Second)
	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []models.Product{
		{ID: "a1", Name: "Red Shoe", Category: "Footwear", Price: 1299, ImageRef: "red.jpg", Status: models.StatusLegacyInStock, Views: 10},
		{ID: "a2", Name: "Green Hat", Category: "Apparel", Price: 12.5, ImageRef: "hat.jpg", Status: models.StatusOutOfStock, Views: 7},
		{ID: "a3", Name: "Mystery Box"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() error = nil, want error")
			}
		})
	}
}

func TestFileSource_Layouts(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml document",
			file: "catalog.yaml",
			content: `products:
  - id: x1
    name: Lamp
    category: Home
    price: 40
    views: 3
`,
		},
		{
			name:    "json array",
			file:    "catalog.json",
			content: `[{"id":"x1","name":"Lamp","category":"Home","price":40,"views":3}]`,
		},
	}

	want := []models.Product{{ID: "x1", Name: "Lamp", Category: "Home", Price: 40, Views: 3}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := NewFileSource(path).Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Fetch(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Fetch() error = %v, want os.ErrNotExist", err)
	}
}

func TestParseProducts_Empty(t *testing.T) {
	got, err := ParseProducts(nil)
	if err != nil {
		t.Fatalf("ParseProducts: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestEmbeddedSource_Fetch(t *testing.T) {
	got, err := NewEmbeddedSource().Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("embedded catalog is empty")
	}
}

func TestSQLiteSource_Fetch(t *testing.T) {
	ctx := context.Background()
	repo, err := services.NewSQLiteProductRepository(ctx, testutil.NewStore(t))
	if err != nil {
		t.Fatalf("NewSQLiteProductRepository: %v", err)
	}
	seed := []models.Product{
		testutil.NewProduct(testutil.WithID("s2"), testutil.WithName("Second")),
		testutil.NewProduct(testutil.WithID("s1"), testutil.WithName("First")),
	}
	if err := repo.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := NewSQLiteSource(repo).Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff([]string{"s2", "s1"}, testutil.IDs(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

type failingSource struct{ err error }

func (f failingSource) Fetch(context.Context) ([]models.Product, error) { return nil, f.err }

type staticSource []models.Product

func (s staticSource) Fetch(context.Context) ([]models.Product, error) { return s, nil }

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewStore(testutil.Logger())

	err := Load(ctx, staticSource{
		testutil.NewProduct(testutil.WithID("1")),
		testutil.NewProduct(testutil.WithID("2")),
	}, store, testutil.Logger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("store.Len() = %d, want 2", store.Len())
	}

	sentinel := errors.New("backend down")
	err = Load(ctx, failingSource{err: sentinel}, store, testutil.Logger())
	if !errors.Is(err, sentinel) {
		t.Errorf("Load() error = %v, want %v", err, sentinel)
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() after failed fetch = %d, want 0", store.Len())
	}
}
