package search

import (
	"context"
	"strings"
	"testing"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
)

type stubScraper struct {
	name  string
	slug  string
	cands []models.Candidate
}

func (s stubScraper) Retailer() string { return s.name }
func (s stubScraper) Slug() string     { return s.slug }
func (s stubScraper) Scrape(context.Context, string) []models.Candidate {
	return s.cands
}

func candidate(slug, name string, price float64) models.Candidate {
	return models.Candidate{
		ExternalID: slug + "_" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		Name:       name,
		Price:      price,
	}
}

func TestSearchGroupsNonEmptyRetailers(t *testing.T) {
	svc := New(
		stubScraper{"Worten", "worten", []models.Candidate{candidate("worten", "Portátil A", 799), candidate("worten", "Portátil B", 899)}},
		stubScraper{"Chip7", "chip7", []models.Candidate{candidate("chip7", "Portátil C", 749)}},
		stubScraper{"PCDiga", "pcdiga", []models.Candidate{candidate("pcdiga", "Portátil D", 999)}},
		stubScraper{"Radio Popular", "radiopopular", nil},
		stubScraper{"PCBem", "pcbem", nil},
		stubScraper{"GlobalData", "globaldata", nil},
	)

	results := svc.Search(context.Background(), "notebook")

	if len(results) != 3 {
		t.Fatalf("got %d retailer buckets, want 3: %v", len(results), results)
	}
	for _, slug := range []string{"worten", "chip7", "pcdiga"} {
		bucket, ok := results[slug]
		if !ok {
			t.Errorf("missing bucket %q", slug)
			continue
		}
		if bucket.Count == 0 || len(bucket.Products) != bucket.Count {
			t.Errorf("bucket %q has count %d with %d products", slug, bucket.Count, len(bucket.Products))
		}
	}
	if _, ok := results["radiopopular"]; ok {
		t.Error("empty retailer should not appear in results")
	}
}

func TestSearchFallsBackToDemoData(t *testing.T) {
	svc := New(
		stubScraper{"Worten", "worten", nil},
		stubScraper{"Chip7", "chip7", nil},
		stubScraper{"PCDiga", "pcdiga", nil},
		stubScraper{"Radio Popular", "radiopopular", nil},
		stubScraper{"PCBem", "pcbem", nil},
		stubScraper{"GlobalData", "globaldata", nil},
	)

	results := svc.Search(context.Background(), "notebook")
	if len(results) == 0 {
		t.Fatal("expected demo fallback, got nothing")
	}

	for slug, bucket := range results {
		for _, p := range bucket.Products {
			if !p.IsDemo() {
				t.Errorf("bucket %q has non-demo record %q in fallback", slug, p.ExternalID)
			}
		}
	}
}

func TestDemoResultsUnknownTerm(t *testing.T) {
	if got := DemoResults("frigorífico retro"); len(got) != 0 {
		t.Errorf("unknown term should have no demo data, got %v", got)
	}
}
