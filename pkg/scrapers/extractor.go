package scrapers

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/browser"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/logger"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
	"github.com/Douglas-Pedroso/tecnocomparador/pkg/normalize"

	"github.com/chromedp/chromedp"
)

const placeholderImage = "https://via.placeholder.com/300"

// rawCandidate is what the in-page extraction snippets return. The text
// field carries the whole container text so price resolution stays in Go.
type rawCandidate struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image string `json:"image"`
	Text  string `json:"text"`
}

// Extractor scrapes one retailer's search results through the shared
// browser. It never returns an error: failures are logged and whatever was
// accumulated before them is returned, possibly nothing.
type Extractor struct {
	retailer Retailer
	browser  *browser.Manager
	fallback *StaticScraper
}

// NewExtractor builds the extractor for one descriptor. Retailers with
// static selectors get a colly fallback used when the browser cannot start.
func NewExtractor(r Retailer, b *browser.Manager) *Extractor {
	e := &Extractor{retailer: r, browser: b}
	if r.Static != (StaticSelectors{}) {
		e.fallback = NewStatic(r)
	}
	return e
}

// NewExtractors builds extractors for every configured retailer.
func NewExtractors(b *browser.Manager) []*Extractor {
	var out []*Extractor
	for _, r := range Retailers() {
		out = append(out, NewExtractor(r, b))
	}
	return out
}

func (e *Extractor) Retailer() string { return e.retailer.Name }
func (e *Extractor) Slug() string     { return e.retailer.Slug }

// Scrape navigates the retailer's search results for term and returns the
// normalized, deduplicated candidates found across up to five pages.
func (e *Extractor) Scrape(ctx context.Context, term string) []models.Candidate {
	tabCtx, closeTab, err := e.browser.NewTab()
	if err != nil {
		log.Printf("[%s] no browser tab: %v", e.retailer.Name, err)
		if e.fallback != nil {
			log.Printf("[%s] falling back to static fetch", e.retailer.Name)
			return e.fallback.Scrape(ctx, term)
		}
		return nil
	}
	defer closeTab()

	// The tab context does not inherit the caller's deadline, so bound the
	// whole run here. Budget covers the initial navigation plus the four
	// possible page transitions.
	runCtx, cancel := context.WithTimeout(tabCtx, e.retailer.NavTimeout+maxPages*15*time.Second)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	d := &chromeDriver{retailer: e.retailer, term: term}
	if err := d.open(runCtx); err != nil {
		log.Printf("[%s] navigation failed: %v", e.retailer.Name, err)
		return nil
	}

	raws := paginate(runCtx, e.retailer.Name, d, e.retailer.Pagination == PaginatePageParam)
	cands := normalizeRaw(e.retailer, raws)
	logger.Dedup("[%s] %d candidates after normalization", e.retailer.Name, len(cands))
	return cands
}

// normalizeRaw turns in-page raw matches into validated candidates and
// applies the retailer's dedup key.
func normalizeRaw(r Retailer, raws []rawCandidate) []models.Candidate {
	var out []models.Candidate
	dropped := 0
	for _, raw := range raws {
		price := normalize.ResolveAmbiguousPrice(normalize.FindPrices(raw.Text), r.PriceCeiling)
		u := absoluteURL(raw.URL, r.BaseURL)
		img := raw.Image
		// Some shops put the EU energy-label badge closest to the price, so
		// the scan picks it up as the product image.
		if strings.Contains(img, "energy_labels") {
			img = ""
		}
		c := models.Candidate{
			ExternalID:    normalize.ExternalID(u, r.Slug),
			Name:          normalize.CleanName(raw.Name),
			Price:         price,
			OriginalPrice: round2(price * r.ListPriceMarkup),
			URL:           u,
			ImageURL:      imageOr(img, placeholderImage),
			Retailer:      r.Name,
			Condition:     models.ConditionNew,
			Availability:  models.AvailabilityAvailable,
			Seller:        r.Name,
		}
		if !normalize.Valid(c, r.PriceCeiling) {
			dropped++
			continue
		}
		out = append(out, c)
	}
	if dropped > 0 {
		log.Printf("[%s] dropped %d implausible candidates", r.Name, dropped)
	}
	return normalize.Dedup(out, r.DedupKey)
}

func absoluteURL(u, base string) string {
	if u == "" || strings.HasPrefix(u, "http") {
		return u
	}
	return base + u
}

func imageOr(img, def string) string {
	if img == "" {
		return def
	}
	return img
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// chromeDriver runs one retailer's page sequence on a chromedp tab.
type chromeDriver struct {
	retailer Retailer
	term     string
}

func (d *chromeDriver) open(ctx context.Context) error {
	r := d.retailer
	navCtx, cancel := context.WithTimeout(ctx, r.NavTimeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(r.TermURL(d.term, 1)),
	}
	if r.CardSelector != "" {
		actions = append(actions, chromedp.WaitVisible(r.CardSelector, chromedp.ByQuery))
	} else {
		actions = append(actions, chromedp.WaitReady("body", chromedp.ByQuery))
	}
	actions = append(actions, chromedp.Sleep(r.SettleDelay))

	return chromedp.Run(navCtx, actions...)
}

func (d *chromeDriver) Extract(ctx context.Context) ([]rawCandidate, error) {
	var raws []rawCandidate
	if err := chromedp.Run(ctx, chromedp.Evaluate(extractJS(d.retailer), &raws)); err != nil {
		return nil, err
	}
	return raws, nil
}

func (d *chromeDriver) Next(ctx context.Context, page int) (bool, error) {
	r := d.retailer
	switch r.Pagination {
	case PaginateClickNext:
		// A missing next control shows up as a click timeout; that is the
		// normal end of results, not an error.
		clickCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := chromedp.Run(clickCtx, chromedp.Click(r.NextSelectors, chromedp.ByQuery))
		cancel()
		if err != nil {
			return false, nil
		}

		waitCtx, cancel := context.WithTimeout(ctx, r.SettleDelay+5*time.Second)
		defer cancel()
		err = chromedp.Run(waitCtx,
			chromedp.Sleep(r.SettleDelay),
			chromedp.WaitVisible(r.CardSelector, chromedp.ByQuery),
		)
		if err != nil {
			return false, nil
		}
		return true, nil

	case PaginatePageParam:
		navCtx, cancel := context.WithTimeout(ctx, r.NavTimeout)
		defer cancel()
		err := chromedp.Run(navCtx,
			chromedp.Navigate(r.TermURL(d.term, page)),
			chromedp.Sleep(r.SettleDelay),
		)
		if err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, nil
	}
}
