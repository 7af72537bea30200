// Command refresh re-scrapes the category catalog and reconciles the
// database: upsert everything found, then evict rows no scrape has seen for
// the retention window. Meant to run from cron.
//
//	refresh            # all categories
//	refresh -term 'rtx 4060'
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/browser"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/config"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/search"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/store"

	"github.com/joho/godotenv"
)

// The fixed category list scraped on every full refresh.
var categories = []string{
	"notebook",
	"portátil",
	"computador",
	"telemóvel",
	"smartphone",
	"tablet",
	"televisão",
	"monitor",
	"teclado",
	"rato",
	"impressora",
	"câmara",
	"headphones",
	"colunas",
}

func main() {
	term := flag.String("term", "", "single search term instead of the full category list")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment as-is")
	}
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	bm := browser.NewManager(cfg.ChromiumPath)
	defer bm.Release()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		bm.Release()
		db.Close()
		os.Exit(1)
	}()

	terms := categories
	if *term != "" {
		terms = []string{*term}
	}

	svc := search.Default(bm)

	var totalCreated, totalUpdated int
	for _, t := range terms {
		log.Printf("Refreshing %q...", t)
		results := svc.Search(ctx, t)

		for _, bucket := range results {
			real := store.FilterPersistable(bucket.Products)
			if len(real) == 0 {
				log.Printf("  %s: nothing real to persist", bucket.Store)
				continue
			}
			created, updated, err := db.Upsert(ctx, real, bucket.Store)
			if err != nil {
				log.Printf("  %s: upsert failed: %v", bucket.Store, err)
				continue
			}
			log.Printf("  %s: %d new, %d refreshed", bucket.Store, created, updated)
			totalCreated += created
			totalUpdated += updated
		}
	}

	removed, err := db.EvictStale(ctx, cfg.Retention)
	if err != nil {
		log.Printf("Eviction failed: %v", err)
	}

	log.Printf("Refresh done: %d new, %d refreshed, %d evicted", totalCreated, totalUpdated, removed)
}
