package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/server"
	"github.com/HerbHall/shopfind/pkg/models"
)

// defaultSuggestLimit caps category suggestions when no limit is given.
const defaultSuggestLimit = 10

// ProductListResponse is the response for product list endpoints.
type ProductListResponse struct {
	Count    int                  `json:"count"`
	Products []models.ProductView `json:"products"`
}

// CategoryListResponse is the response for category endpoints.
type CategoryListResponse struct {
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
}

// SelectionRequest is the body of PUT /api/v1/selection.
type SelectionRequest struct {
	ID string `json:"id"`
}

// SelectionResponse reports the current selection.
type SelectionResponse struct {
	ID string `json:"id"`
}

// SelectionObserver is told the outcome of every forwarded selection.
type SelectionObserver interface {
	ObserveSelection(err error)
}

// Handler serves the product query API.
type Handler struct {
	engine   *Engine
	logger   *zap.Logger
	observer SelectionObserver

	// mu serializes the shared selection session used by plain HTTP clients.
	mu        sync.Mutex
	selection *Session
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithSelectionObserver reports selection outcomes to o.
func WithSelectionObserver(o SelectionObserver) HandlerOption {
	return func(h *Handler) { h.observer = o }
}

// NewHandler creates a new catalog API handler. sink receives selections
// made through PUT /api/v1/selection and may be nil.
func NewHandler(engine *Engine, sink SelectionSink, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		engine:    engine,
		logger:    logger,
		selection: NewSession(engine, sink),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products", h.handleListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.handleGetProduct)
	mux.HandleFunc("POST /api/v1/products/rank", h.handleRank)
	mux.HandleFunc("GET /api/v1/categories", h.handleListCategories)
	mux.HandleFunc("GET /api/v1/categories/suggest", h.handleSuggestCategories)
	mux.HandleFunc("GET /api/v1/selection", h.handleGetSelection)
	mux.HandleFunc("PUT /api/v1/selection", h.handlePutSelection)
}

// handleListProducts runs the query pipeline for ?q= and ?category=.
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products := h.engine.Search(QueryState{
		FreeText: q.Get("q"),
		Category: q.Get("category"),
	})
	writeJSON(w, http.StatusOK, productList(products))
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.engine.Product(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "product "+id+" not found", r.URL.Path)
			return
		}
		h.logger.Error("failed to get product", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to get product", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, models.NewProductViews([]models.Product{p})[0])
}

// handleRank reorders the catalog by views and returns the new order.
func (h *Handler) handleRank(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, productList(h.engine.Rank()))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoryList(h.engine.Categories()))
}

func (h *Handler) handleSuggestCategories(w http.ResponseWriter, r *http.Request) {
	limit := defaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			server.BadRequest(w, "limit must be a positive integer", r.URL.Path)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, categoryList(h.engine.SuggestCategories(r.URL.Query().Get("q"), limit)))
}

func (h *Handler) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	id := h.selection.Selected()
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, SelectionResponse{ID: id})
}

// handlePutSelection opens the detail view for a product, or closes it when
// the id is empty.
func (h *Handler) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}

	h.mu.Lock()
	err := h.selection.Select(r.Context(), req.ID)
	id := h.selection.Selected()
	h.mu.Unlock()

	if errors.Is(err, ErrNotFound) {
		server.NotFound(w, "product "+req.ID+" not found", r.URL.Path)
		return
	}
	if h.observer != nil {
		h.observer.ObserveSelection(err)
	}
	if err != nil {
		h.logger.Error("failed to forward selection", zap.String("id", req.ID), zap.Error(err))
		server.InternalError(w, "failed to forward selection", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{ID: id})
}

// -- helpers --

func productList(products []models.Product) ProductListResponse {
	return ProductListResponse{
		Count:    len(products),
		Products: models.NewProductViews(products),
	}
}

func categoryList(categories []string) CategoryListResponse {
	if categories == nil {
		categories = []string{}
	}
	return CategoryListResponse{Count: len(categories), Categories: categories}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
