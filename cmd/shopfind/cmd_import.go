package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/HerbHall/shopfind/internal/services"
	"github.com/HerbHall/shopfind/internal/snapshot"
	"github.com/HerbHall/shopfind/internal/source"
	"github.com/HerbHall/shopfind/internal/store"
	"github.com/HerbHall/shopfind/pkg/models"
)

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	input := fs.String("input", "", "catalog file (.yaml, .json or .tar.gz snapshot)")
	url := fs.String("url", "", "backend URL serving the catalog as JSON")
	dbPath := fs.String("db", "shopfind.db", "path to the SQLite catalog database")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if (*input == "") == (*url == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -input or -url is required")
		os.Exit(2)
	}

	ctx := context.Background()
	products, err := readImport(ctx, *input, *url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	db, err := store.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repo, err := services.NewSQLiteProductRepository(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prepare database: %v\n", err)
		os.Exit(1)
	}
	if err := repo.ReplaceAll(ctx, products); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	stored, err := repo.Count(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "count products: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d product(s) into %s", stored, *dbPath)
	if dropped := len(products) - stored; dropped > 0 {
		fmt.Printf(" (%d duplicate id(s) skipped)", dropped)
	}
	fmt.Println()
}

func readImport(ctx context.Context, input, url string) ([]models.Product, error) {
	switch {
	case url != "":
		return source.NewHTTPSource(url, 0).Fetch(ctx)
	case strings.HasSuffix(input, ".tar.gz") || strings.HasSuffix(input, ".tgz"):
		return snapshot.Read(input)
	default:
		return source.NewFileSource(input).Fetch(ctx)
	}
}
