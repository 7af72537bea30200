// Package search fans a term out to every retailer scraper and groups the
// results by shop.
package search

import (
	"context"
	"log"
	"sync"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/browser"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/scrapers"
)

// Scraper is one retailer's extraction pipeline. Implementations never
// fail: a broken retailer contributes an empty slice.
type Scraper interface {
	Retailer() string
	Slug() string
	Scrape(ctx context.Context, term string) []models.Candidate
}

// Service aggregates results across retailers.
type Service struct {
	scrapers []Scraper
}

// New builds a service over an explicit scraper set; used by tests and by
// Default.
func New(ss ...Scraper) *Service {
	return &Service{scrapers: ss}
}

// Default wires the six configured retailers onto the shared browser.
func Default(b *browser.Manager) *Service {
	var ss []Scraper
	for _, e := range scrapers.NewExtractors(b) {
		ss = append(ss, e)
	}
	return New(ss...)
}

// Search runs every scraper concurrently and returns the non-empty buckets
// keyed by retailer slug. Retailers may finish in any order; the call waits
// for all of them. When nothing at all was found the canned demo dataset is
// returned instead, its records marked by the demo id prefix so they are
// recognizably non-authoritative and never persisted.
func (s *Service) Search(ctx context.Context, term string) map[string]models.StoreResult {
	results := make(map[string]models.StoreResult)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sc := range s.scrapers {
		wg.Add(1)
		go func(sc Scraper) {
			defer wg.Done()
			products := sc.Scrape(ctx, term)
			if len(products) == 0 {
				return
			}
			mu.Lock()
			results[sc.Slug()] = models.StoreResult{
				Store:    sc.Retailer(),
				Count:    len(products),
				Products: products,
			}
			mu.Unlock()
		}(sc)
	}
	wg.Wait()

	if len(results) == 0 {
		log.Printf("No real results for %q, serving demo dataset", term)
		return DemoResults(term)
	}
	return results
}
