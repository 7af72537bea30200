package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/api"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/browser"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/config"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/search"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/store"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/joho/godotenv"
)

type app struct {
	svc *search.Service
	db  store.Store

	// Bounds concurrent scrape requests so one burst of searches does not
	// spawn dozens of tabs.
	scraperSemaphore chan struct{}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment as-is")
	}
	cfg := config.Load()

	db, err := store.Open(context.Background(), cfg.DatabaseURL, cfg.SQLitePath)
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
		os.Exit(0)
	}()

	a := &app{
		svc:              search.Default(bm),
		db:               db,
		scraperSemaphore: make(chan struct{}, cfg.MaxConcurrentScrapes),
	}

	http.HandleFunc("/", a.rootHandler)

	if ip := GetOutboundIP(); ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Port)
	}
	fmt.Printf("Access URL: http://localhost:%s\n", cfg.Port)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           nil,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

func (a *app) rootHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/search") {
		a.searchHandler(w, r)
		return
	}

	// Serve Scalar docs on root path
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Tecnocomparador API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

type searchResponse struct {
	Term    string                        `json:"term"`
	Stores  []storeSummary                `json:"stores"`
	Results map[string]models.StoreResult `json:"results"`
}

type storeSummary struct {
	ID    string `json:"id"`
	Store string `json:"store"`
	Count int    `json:"count"`
}

// searchHandler runs the full pipeline for one user search: scrape every
// retailer, persist whatever is real, answer with the grouped buckets.
func (a *app) searchHandler(w http.ResponseWriter, r *http.Request) {
	var term string
	switch r.Method {
	case http.MethodGet:
		term = r.URL.Query().Get("term")
	case http.MethodPost:
		var body struct {
			Term string `json:"term"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			api.WriteBadRequest(w, "Invalid JSON body. Expected {\"term\": \"...\"}", r.URL.Path)
			return
		}
		defer r.Body.Close()
		term = body.Term
	default:
		api.WriteMethodNotAllowed(w, "Use GET /search?term=... or POST /search", r.URL.Path)
		return
	}

	term = strings.TrimSpace(term)
	if term == "" {
		api.WriteBadRequest(w, "Missing search term", r.URL.Path)
		return
	}

	a.scraperSemaphore <- struct{}{}
	defer func() { <-a.scraperSemaphore }()

	log.Printf("Searching %q across retailers", term)
	results := a.svc.Search(r.Context(), term)

	resp := searchResponse{Term: term, Results: results, Stores: []storeSummary{}}
	for slug, bucket := range results {
		resp.Stores = append(resp.Stores, storeSummary{ID: slug, Store: bucket.Store, Count: bucket.Count})

		real := store.FilterPersistable(bucket.Products)
		if len(real) == 0 {
			continue
		}
		created, updated, err := a.db.Upsert(r.Context(), real, bucket.Store)
		if err != nil {
			log.Printf("Persisting %s results failed: %v", bucket.Store, err)
			continue
		}
		log.Printf("%s: %d new, %d refreshed", bucket.Store, created, updated)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
		api.WriteInternalServerError(w, fmt.Errorf("failed to encode response"), r.URL.Path)
	}
}

func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}
