package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"

	"github.com/google/uuid"
)

// Portuguese retail sites print prices as "1.234,56€" or "56,78 €":
// optional dot/space thousands groups, comma decimal separator, euro sign.
// The padding space is usually U+00A0, which Go's \s does not match, so the
// classes spell it out.
var (
	priceTokenRe  = regexp.MustCompile(`(\d+(?:[\s\x{00A0}.]\d{3})*,\d+)[\s\x{00A0}]*€`)
	priceNumberRe = regexp.MustCompile(`(\d+(?:[\s\x{00A0}.]\d{3})*,\d+)`)
	indexPrefixRe = regexp.MustCompile(`^\d+\s*-\s*`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// ParsePrice converts one locale-formatted currency string to its numeric
// value. "1.234,56€" -> 1234.56, "56,78 €" -> 56.78.
func ParsePrice(s string) (float64, error) {
	m := priceNumberRe.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("no price in %q", s)
	}
	m = strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, m)
	m = strings.ReplaceAll(m, ",", ".")
	return strconv.ParseFloat(m, 64)
}

// FindPrices extracts every currency token from a free-text blob.
func FindPrices(text string) []float64 {
	var out []float64
	for _, tok := range priceTokenRe.FindAllString(text, -1) {
		if v, err := ParsePrice(tok); err == nil && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// ResolveAmbiguousPrice picks the price to report when a product blurb
// contains several currency tokens (sale banners put the promotional price
// next to the real one). It keeps the largest value that passes the
// retailer's plausibility ceiling. Known-imperfect heuristic; isolated here
// so it can be recalibrated per retailer without touching the extractors.
func ResolveAmbiguousPrice(prices []float64, ceiling float64) float64 {
	var best float64
	for _, p := range prices {
		if p > 0 && p <= ceiling && p > best {
			best = p
		}
	}
	return best
}

// ExternalID derives a retailer-scoped stable identifier from the product's
// detail-page URL: the trailing path segment, or the last query value when
// the path has none. An unusable URL yields a synthesized random id; the
// record then cannot be tracked across runs, which is accepted degradation.
func ExternalID(rawURL, slug string) string {
	if id := urlTailSegment(rawURL); id != "" {
		return slug + "_" + id
	}
	return slug + "_" + uuid.NewString()
}

func urlTailSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 && i+1 < len(path) {
		return path[i+1:]
	}
	if u.RawQuery != "" {
		vals := u.Query()
		for _, vs := range vals {
			for _, v := range vs {
				if v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// CleanName trims a scraped product name, collapsing internal whitespace and
// stripping the "NNN - " index prefix some listings carry.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	name = indexPrefixRe.ReplaceAllString(name, "")
	return spaceRe.ReplaceAllString(name, " ")
}

// DedupKey selects which fields identify "the same product" within one page.
// Card-based retailers expose one product per container and dedup on URL
// alone; heuristic-scan retailers can revisit the same product from several
// matched elements, so they need the composite key.
type DedupKey int

const (
	DedupByURL DedupKey = iota
	DedupByComposite
	DedupByNamePrice
)

// Dedup drops repeated candidates from one retailer's page results, keeping
// first occurrences in order.
func Dedup(cands []models.Candidate, key DedupKey) []models.Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := cands[:0]
	for _, c := range cands {
		var k string
		switch key {
		case DedupByComposite:
			k = fmt.Sprintf("%s_%s_%.2f", c.ExternalID, c.Name, c.Price)
		case DedupByNamePrice:
			k = fmt.Sprintf("%s_%.2f", c.Name, c.Price)
		default:
			k = c.URL
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Valid is the extraction-time gate: a candidate must carry a name and a
// plausible positive price, so implausible rows never reach the aggregator
// or the database.
func Valid(c models.Candidate, ceiling float64) bool {
	return c.Name != "" && c.Price > 0 && c.Price <= ceiling
}
