package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/internal/config"
	"github.com/HerbHall/shopfind/internal/source"
	"github.com/HerbHall/shopfind/pkg/models"
)

func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	text := fs.String("q", "", "free text to match")
	category := fs.String("category", "", "exact category filter (case-insensitive)")
	rank := fs.Bool("rank", false, "rank the catalog by views before querying")
	asJSON := fs.Bool("json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	settings, cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	src, closeSource, err := buildSource(ctx, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure source: %v\n", err)
		os.Exit(1)
	}
	defer closeSource()

	store := catalog.NewStore(zap.NewNop())
	if err := source.Load(ctx, src, store, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (empty catalog)\n", err)
	}

	engine := newEngine(cfg.Sub("search"), store, zap.NewNop())
	if *rank {
		engine.Rank()
	}
	products := engine.Search(catalog.QueryState{FreeText: *text, Category: *category})

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(models.NewProductViews(products)); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printTable(os.Stdout, products)
}

func printTable(w io.Writer, products []models.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTATUS\tVIEWS")
	for i := range products {
		p := products[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.PriceText(), p.Status.Display(), strconv.FormatInt(p.Views, 10))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d product(s)\n", len(products))
}
