package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HerbHall/shopfind/internal/services"
	"github.com/HerbHall/shopfind/internal/snapshot"
	"github.com/HerbHall/shopfind/internal/store"
)

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "output file path (default: shopfind-catalog-{timestamp}.tar.gz)")
	dbPath := fs.String("db", "shopfind.db", "path to the SQLite catalog database")
	includeDB := fs.Bool("include-db", false, "also copy the database file into the archive")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *output == "" {
		*output = fmt.Sprintf("shopfind-catalog-%s.tar.gz", time.Now().Format("20060102-150405"))
	}

	ctx := context.Background()
	db, err := store.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	repo, err := services.NewSQLiteProductRepository(ctx, db)
	if err != nil {
		db.Close()
		fmt.Fprintf(os.Stderr, "prepare database: %v\n", err)
		os.Exit(1)
	}
	products, err := repo.List(ctx)
	db.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read catalog: %v\n", err)
		os.Exit(1)
	}

	archiveDB := ""
	if *includeDB {
		archiveDB = *dbPath
	}
	if err := snapshot.Write(ctx, products, archiveDB, *output); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d product(s) to %s\n", len(products), *output)
}
