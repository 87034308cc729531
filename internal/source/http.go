package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HerbHall/shopfind/internal/version"
	"github.com/HerbHall/shopfind/pkg/models"
)

// DefaultHTTPTimeout bounds a single catalog request.
const DefaultHTTPTimeout = 10 * time.Second

// maxCatalogBytes caps the response body read from the backend.
const maxCatalogBytes = 32 << 20

// HTTPSource reads the catalog from the storefront backend, which serves a
// JSON array of product documents.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource for url. A non-positive timeout falls
// back to DefaultHTTPTimeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", s.url, resp.StatusCode)
	}

	var docs []wireProduct
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBytes)).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]models.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toModel()
	}
	return products, nil
}

// wireProduct is a product document as the backend stores it.
type wireProduct struct {
	ID       string     `json:"_id"`
	Name     string     `json:"productName"`
	Category string     `json:"category"`
	Price    wirePrice  `json:"productPrice"`
	Image    string     `json:"productImage"`
	Status   string     `json:"status"`
	Views    wireNumber `json:"views"`
}

func (w wireProduct) toModel() models.Product {
	views := int64(w.Views)
	if views < 0 {
		views = 0
	}
	return models.Product{
		ID:       w.ID,
		Name:     w.Name,
		Category: w.Category,
		Price:    float64(w.Price),
		ImageRef: w.Image,
		Status:   models.ProductStatus(w.Status),
		Views:    views,
	}
}

// wirePrice accepts a JSON number or a numeric string. Anything else decodes
// as zero.
type wirePrice float64

func (p *wirePrice) UnmarshalJSON(data []byte) error {
	f, ok := parseLooseNumber(data)
	if ok {
		*p = wirePrice(f)
	}
	return nil
}

// wireNumber is an integer counter that may arrive as a number or string.
type wireNumber int64

func (n *wireNumber) UnmarshalJSON(data []byte) error {
	f, ok := parseLooseNumber(data)
	if ok {
		*n = wireNumber(int64(f))
	}
	return nil
}

func parseLooseNumber(data []byte) (float64, bool) {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return 0, false
	}
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
