// Package services provides repository interfaces and SQLite implementations
// for data access. This layer bridges the raw SQLite store with the catalog
// sources and the import tooling.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/HerbHall/shopfind/internal/store"
	"github.com/HerbHall/shopfind/pkg/models"
)

// ProductRepository provides access to the stored catalog.
type ProductRepository interface {
	// List returns all products in catalog order.
	List(ctx context.Context) ([]models.Product, error)

	// ReplaceAll swaps the stored catalog for products, keeping their order.
	// Products without an id are assigned a UUID. A repeated id keeps its
	// first occurrence.
	ReplaceAll(ctx context.Context, products []models.Product) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}

// Compile-time interface guard.
var _ ProductRepository = (*SQLiteProductRepository)(nil)

// SQLiteProductRepository implements ProductRepository using SQLite.
type SQLiteProductRepository struct {
	store *store.SQLiteStore
	db    *sql.DB
}

// NewSQLiteProductRepository creates a ProductRepository and runs the
// catalog_products migration.
func NewSQLiteProductRepository(ctx context.Context, s *store.SQLiteStore) (*SQLiteProductRepository, error) {
	if err := s.Migrate(ctx, "catalog", productMigrations); err != nil {
		return nil, fmt.Errorf("catalog migrations: %w", err)
	}
	return &SQLiteProductRepository{store: s, db: s.DB()}, nil
}

const productColumns = `id, name, category, price, image_ref, status, views`

func (r *SQLiteProductRepository) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM catalog_products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *SQLiteProductRepository) ReplaceAll(ctx context.Context, products []models.Product) error {
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_products`); err != nil {
			return fmt.Errorf("clear products: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO catalog_products (id, position, name, category, price, image_ref, status, views)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		seen := make(map[string]struct{}, len(products))
		position := 0
		for i := range products {
			p := products[i]
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			if _, err := stmt.ExecContext(ctx,
				p.ID, position, p.Name, p.Category, p.Price, p.ImageRef, string(p.Status), p.Views,
			); err != nil {
				return fmt.Errorf("insert product %q: %w", p.ID, err)
			}
			position++
		}
		return nil
	})
}

func (r *SQLiteProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p      models.Product
		status string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.ImageRef, &status, &p.Views); err != nil {
		return nil, err
	}
	p.Status = models.ProductStatus(status)
	return &p, nil
}

// productMigrations defines the database schema for catalog_products.
var productMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create catalog_products table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE catalog_products (
					id        TEXT PRIMARY KEY,
					position  INTEGER NOT NULL,
					name      TEXT NOT NULL DEFAULT '',
					category  TEXT NOT NULL DEFAULT '',
					price     REAL NOT NULL DEFAULT 0,
					image_ref TEXT NOT NULL DEFAULT '',
					status    TEXT NOT NULL DEFAULT '',
					views     INTEGER NOT NULL DEFAULT 0
				)`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`CREATE INDEX idx_catalog_products_position ON catalog_products (position)`)
			return err
		},
	},
}
