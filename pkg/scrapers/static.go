package scrapers

import (
	"context"
	"log"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// StaticSelectors configure the degraded no-browser path: plain HTTP fetch
// plus CSS selection. Only usable on shops that render product cards without
// JavaScript, so only the first result page is read.
type StaticSelectors struct {
	Card  string
	Name  string
	Price string
	Image string
	Link  string
}

// StaticScraper fetches a retailer's search page over plain HTTP. It backs
// the browser-driven extractor up when Chrome cannot launch.
type StaticScraper struct {
	retailer Retailer
}

func NewStatic(r Retailer) *StaticScraper {
	return &StaticScraper{retailer: r}
}

func (s *StaticScraper) Retailer() string { return s.retailer.Name }
func (s *StaticScraper) Slug() string     { return s.retailer.Slug }

func (s *StaticScraper) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(s.retailer.NavTimeout)
	return c
}

// Scrape reads the first result page for term. Errors degrade to an empty
// or partial result, same contract as the browser extractor.
func (s *StaticScraper) Scrape(ctx context.Context, term string) []models.Candidate {
	r := s.retailer
	sel := r.Static

	var raws []rawCandidate
	c := s.newCollector()
	c.Context = ctx

	c.OnHTML(sel.Card, func(e *colly.HTMLElement) {
		name := e.ChildText(sel.Name)
		link := e.ChildAttr(sel.Link, "href")
		if name == "" || link == "" {
			return
		}

		img := e.ChildAttr(sel.Image, "src")
		if img == "" {
			// Lazy-loaded images keep the real source in a data attribute.
			e.DOM.Find(sel.Image).EachWithBreak(func(_ int, node *goquery.Selection) bool {
				img, _ = node.Attr("data-src")
				return false
			})
		}

		raws = append(raws, rawCandidate{
			Name:  name,
			URL:   link,
			Image: img,
			Text:  e.ChildText(sel.Price),
		})
	})

	c.OnError(func(resp *colly.Response, err error) {
		log.Printf("[%s] static fetch failed: %v", r.Name, err)
	})

	if err := c.Visit(r.TermURL(term, 1)); err != nil {
		log.Printf("[%s] static visit failed: %v", r.Name, err)
	}
	c.Wait()

	return normalizeRaw(r, raws)
}
