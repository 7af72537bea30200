package scrapers

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/normalize"
)

// Strategy selects how product candidates are pulled out of a result page.
type Strategy int

const (
	// StrategyCards reads repeating product-card containers with known
	// sub-selectors.
	StrategyCards Strategy = iota
	// StrategyHeuristicScan walks the whole DOM looking for price-bearing
	// elements of plausible size; used when the site has no stable card
	// markup.
	StrategyHeuristicScan
	// StrategyLinkScan enumerates anchors that look like product links and
	// reads prices from their nearest block ancestor.
	StrategyLinkScan
	// StrategyArticleScan is the link scan confined to <article> containers.
	StrategyArticleScan
)

// Pagination selects how the extractor advances through result pages.
type Pagination int

const (
	// PaginateNone stops after the first page.
	PaginateNone Pagination = iota
	// PaginateClickNext clicks a "next" control and waits for the card
	// selector to reappear.
	PaginateClickNext
	// PaginatePageParam re-navigates with a page query parameter and stops
	// on the first empty page.
	PaginatePageParam
)

// Retailer is the declarative descriptor driving the generic extractor.
// Adding a shop means adding a descriptor, not a scraper.
type Retailer struct {
	Name string
	Slug string

	BaseURL     string
	SearchURL   string // template with one %s for the escaped term
	PageParam   string // query parameter appended for pages > 1
	Strategy    Strategy
	Pagination  Pagination
	NavTimeout  time.Duration
	SettleDelay time.Duration

	// Card strategy selectors. An empty NameSelectors switches the card
	// extractor to the longest-anchor name heuristic.
	CardSelector  string
	NameSelectors string
	NextSelectors string

	// Link/article scan tuning.
	MinLinkTextLen  int
	MinPathSegments int
	ExcludeURLParts []string

	// Candidates above the ceiling are discarded as extraction noise; the
	// list price defaults to price times the markup when the page shows no
	// separate one.
	PriceCeiling    float64
	ListPriceMarkup float64

	DedupKey normalize.DedupKey

	// Static fallback selectors for the colly path, when the site renders
	// enough without JavaScript. Zero value disables the fallback.
	Static StaticSelectors
}

// TermURL builds the search URL for a page. Page 1 uses the plain search
// URL; later pages append the retailer's page parameter.
func (r Retailer) TermURL(term string, page int) string {
	u := fmt.Sprintf(r.SearchURL, url.QueryEscape(term))
	if page > 1 && r.PageParam != "" {
		u += "&" + r.PageParam + "=" + strconv.Itoa(page)
	}
	return u
}

// Retailers returns the six shop descriptors in no particular order.
func Retailers() []Retailer {
	return []Retailer{
		{
			Name:            "Worten",
			Slug:            "worten",
			BaseURL:         "https://www.worten.pt",
			SearchURL:       "https://www.worten.pt/search?query=%s",
			Strategy:        StrategyCards,
			Pagination:      PaginateClickNext,
			NavTimeout:      30 * time.Second,
			SettleDelay:     2 * time.Second,
			CardSelector:    ".product-card",
			NameSelectors:   "h3, .product-name, .product-title, h2, h4",
			NextSelectors:   `button[aria-label="Next"], .pagination-next, a[rel="next"], button.next`,
			PriceCeiling:    20000,
			ListPriceMarkup: 1.10,
			DedupKey:        normalize.DedupByURL,
			Static:          StaticSelectors{
				Card:  ".w-product",
				Name:  ".w-product__title",
				Price: ".w-product__price",
				Image: ".w-product__img",
				Link:  ".w-product__link",
			},
		},
		{
			Name:        "Radio Popular",
			Slug:        "radiopopular",
			BaseURL:     "https://www.radiopopular.pt",
			SearchURL:   "https://www.radiopopular.pt/pesquisa/%s",
			Strategy:    StrategyCards,
			Pagination:  PaginateClickNext,
			NavTimeout:  20 * time.Second,
			SettleDelay: 2 * time.Second,
			// No stable name sub-selector; the card extractor falls back to
			// the longest-anchor heuristic.
			CardSelector:    ".product",
			NextSelectors:   `a.next, .pagination-next, [rel="next"], button.next`,
			PriceCeiling:    20000,
			ListPriceMarkup: 1.10,
			DedupKey:        normalize.DedupByURL,
			Static:          StaticSelectors{
				Card:  ".product-card",
				Name:  ".product-title",
				Price: ".product-price",
				Image: ".product-thumbnail",
				Link:  ".product-link",
			},
		},
		{
			Name:            "PCBem",
			Slug:            "pcbem",
			BaseURL:         "https://www.pcbem.pt",
			SearchURL:       "https://www.pcbem.pt/?s=%s&post_type=product",
			Strategy:        StrategyCards,
			Pagination:      PaginateClickNext,
			NavTimeout:      20 * time.Second,
			SettleDelay:     2 * time.Second,
			CardSelector:    ".product",
			NameSelectors:   ".woocommerce-loop-product__title, h2, h3, .product-title",
			NextSelectors:   `a.next, .next-page, .pagination-next, a[rel="next"]`,
			PriceCeiling:    20000,
			ListPriceMarkup: 1.10,
			DedupKey:        normalize.DedupByURL,
			Static:          StaticSelectors{
				Card:  ".product-item",
				Name:  ".product-name",
				Price: ".product-price",
				Image: ".product-image img",
				Link:  ".product-link",
			},
		},
		{
			Name:            "Chip7",
			Slug:            "chip7",
			BaseURL:         "https://chip7.pt",
			SearchURL:       "https://chip7.pt/?main.query=%s",
			Strategy:        StrategyHeuristicScan,
			Pagination:      PaginateNone,
			NavTimeout:      20 * time.Second,
			SettleDelay:     3 * time.Second,
			PriceCeiling:    50000,
			ListPriceMarkup: 1.10,
			DedupKey:        normalize.DedupByComposite,
			Static:          StaticSelectors{
				Card:  ".product",
				Name:  "h2.title",
				Price: ".price",
				Image: "img.product-img",
				Link:  "a.product-url",
			},
		},
		{
			Name:            "PCDiga",
			Slug:            "pcdiga",
			BaseURL:         "https://www.pcdiga.com",
			SearchURL:       "https://www.pcdiga.com/search?query=%s",
			PageParam:       "page",
			Strategy:        StrategyLinkScan,
			Pagination:      PaginatePageParam,
			NavTimeout:      20 * time.Second,
			SettleDelay:     3 * time.Second,
			MinLinkTextLen:  15,
			MinPathSegments: 5,
			ExcludeURLParts: []string{"javascript:", "campanhas", "configurador"},
			PriceCeiling:    100000,
			ListPriceMarkup: 1.05,
			DedupKey:        normalize.DedupByNamePrice,
		},
		{
			Name:            "GlobalData",
			Slug:            "globaldata",
			BaseURL:         "https://www.globaldata.pt",
			SearchURL:       "https://www.globaldata.pt/?query=%s",
			PageParam:       "page",
			Strategy:        StrategyArticleScan,
			Pagination:      PaginatePageParam,
			NavTimeout:      20 * time.Second,
			SettleDelay:     3 * time.Second,
			MinLinkTextLen:  15,
			ExcludeURLParts: []string{"img.globaldata", "produtos-saldos", "?query="},
			PriceCeiling:    50000,
			ListPriceMarkup: 1.05,
			DedupKey:        normalize.DedupByURL,
		},
	}
}
