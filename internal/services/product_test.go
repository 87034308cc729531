package services_test

import (
	"context"
	"testing"

	"github.com/HerbHall/shopfind/internal/services"
	"github.com/HerbHall/shopfind/internal/testutil"
	"github.com/HerbHall/shopfind/pkg/models"
)

func newProductRepo(t *testing.T) services.ProductRepository {
	t.Helper()
	store := testutil.NewStore(t)
	repo, err := services.NewSQLiteProductRepository(context.Background(), store)
	if err != nil {
		t.Fatalf("NewSQLiteProductRepository: %v", err)
	}
	return repo
}

func TestSQLiteProductRepository_ReplaceAndList(t *testing.T) {
	repo := newProductRepo(t)
	ctx := context.Background()

	products := []models.Product{
		testutil.NewProduct(testutil.WithID("b"), testutil.WithName("Blue Shoe"), testutil.WithViews(20)),
		testutil.NewProduct(testutil.WithID("a"), testutil.WithName("Red Shoe"), testutil.WithViews(5)),
		testutil.NewProduct(testutil.WithID("c"), testutil.WithName("Green Hat"), testutil.WithStatus(models.StatusLegacyInStock)),
	}
	if err := repo.ReplaceAll(ctx, products); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List = %d items, want 3", len(got))
	}
	// Results keep insertion order, not id order.
	if got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Errorf("List order = [%s, %s, %s], want [b, a, c]", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Views != 20 || got[0].Name != "Blue Shoe" {
		t.Errorf("List[0] = %+v", got[0])
	}
	if got[2].Status != models.StatusLegacyInStock {
		t.Errorf("List[2].Status = %q, want %q", got[2].Status, models.StatusLegacyInStock)
	}
}

func TestSQLiteProductRepository_ReplaceOverwrites(t *testing.T) {
	repo := newProductRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []models.Product{testutil.NewProduct(), testutil.NewProduct()}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := repo.ReplaceAll(ctx, []models.Product{testutil.NewProduct(testutil.WithID("only"))}); err != nil {
		t.Fatalf("ReplaceAll again: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSQLiteProductRepository_AssignsMissingIDs(t *testing.T) {
	repo := newProductRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []models.Product{{Name: "Nameless"}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID == "" {
		t.Errorf("List = %+v, want one product with a generated id", got)
	}
}

func TestSQLiteProductRepository_DuplicateIDsKeepFirst(t *testing.T) {
	repo := newProductRepo(t)
	ctx := context.Background()

	err := repo.ReplaceAll(ctx, []models.Product{
		testutil.NewProduct(testutil.WithID("a"), testutil.WithName("First A")),
		testutil.NewProduct(testutil.WithID("b"), testutil.WithName("B")),
		testutil.NewProduct(testutil.WithID("a"), testutil.WithName("Second A")),
		testutil.NewProduct(testutil.WithID("c"), testutil.WithName("C")),
	})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List = %d items, want 3", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("List order = [%s, %s, %s], want [a, b, c]", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Name != "First A" {
		t.Errorf("List[0].Name = %q, want %q", got[0].Name, "First A")
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}
