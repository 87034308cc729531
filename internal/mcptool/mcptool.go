// Package mcptool exposes the product query engine as Model Context Protocol
// tools so assistants can search the catalog.
package mcptool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/internal/version"
	"github.com/HerbHall/shopfind/pkg/models"
)

// SearchInput is the argument of the search_products tool.
type SearchInput struct {
	Query    string `json:"query,omitempty" jsonschema:"free text matched approximately against name, category and price"`
	Category string `json:"category,omitempty" jsonschema:"exact category, case-insensitive; empty for all"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of products to return; 0 for all"`
}

// ProductResult is a product as reported to tool callers.
type ProductResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	ImageRef string  `json:"image_ref,omitempty"`
	Status   string  `json:"status,omitempty"`
	Views    int64   `json:"views"`
}

func toResult(p models.Product) ProductResult {
	return ProductResult{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		ImageRef: p.ImageRef,
		Status:   p.Status.Display(),
		Views:    p.Views,
	}
}

// SearchOutput is the result of the search_products tool.
type SearchOutput struct {
	Count    int             `json:"count"`
	Total    int             `json:"total"`
	Products []ProductResult `json:"products"`
}

// ProductInput is the argument of the get_product tool.
type ProductInput struct {
	ID string `json:"id" jsonschema:"product id"`
}

// CategoriesInput is the argument of the list_categories tool.
type CategoriesInput struct {
	Prefix string `json:"prefix,omitempty" jsonschema:"partially typed category used to rank suggestions"`
}

// CategoriesOutput is the result of the list_categories tool.
type CategoriesOutput struct {
	Categories []string `json:"categories"`
}

// Tools implements the tool handlers against an engine.
type Tools struct {
	engine *catalog.Engine
	logger *zap.Logger
}

// New creates the tool set.
func New(engine *catalog.Engine, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{engine: engine, logger: logger}
}

// Server builds an MCP server with all tools registered.
func (t *Tools) Server() *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: "shopfind", Version: version.Short()}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the product catalog with typo-tolerant text and an optional exact category filter. Results are best match first.",
	}, t.SearchProducts)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_product",
		Description: "Fetch a single product by id.",
	}, t.GetProduct)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the distinct product categories, optionally ranked against a partial name.",
	}, t.ListCategories)
	return s
}

// Run serves the tools over stdio until ctx is done or the client disconnects.
func (t *Tools) Run(ctx context.Context) error {
	t.logger.Info("mcp server starting on stdio")
	return t.Server().Run(ctx, &mcp.StdioTransport{})
}

// SearchProducts runs the query pipeline.
func (t *Tools) SearchProducts(_ context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if in.Limit < 0 {
		return nil, SearchOutput{}, errors.New("limit must not be negative")
	}
	products := t.engine.Search(catalog.QueryState{FreeText: in.Query, Category: in.Category})
	total := len(products)
	if in.Limit > 0 && len(products) > in.Limit {
		products = products[:in.Limit]
	}
	out := SearchOutput{
		Count:    len(products),
		Total:    total,
		Products: make([]ProductResult, len(products)),
	}
	for i := range products {
		out.Products[i] = toResult(products[i])
	}
	return nil, out, nil
}

// GetProduct returns one product.
func (t *Tools) GetProduct(_ context.Context, _ *mcp.CallToolRequest, in ProductInput) (*mcp.CallToolResult, ProductResult, error) {
	p, err := t.engine.Product(in.ID)
	if err != nil {
		return nil, ProductResult{}, fmt.Errorf("product %q: %w", in.ID, err)
	}
	return nil, toResult(p), nil
}

// ListCategories returns the category set, or suggestions for a prefix.
func (t *Tools) ListCategories(_ context.Context, _ *mcp.CallToolRequest, in CategoriesInput) (*mcp.CallToolResult, CategoriesOutput, error) {
	var categories []string
	if in.Prefix == "" {
		categories = t.engine.Categories()
	} else {
		categories = t.engine.SuggestCategories(in.Prefix, 0)
	}
	if categories == nil {
		categories = []string{}
	}
	return nil, CategoriesOutput{Categories: categories}, nil
}
