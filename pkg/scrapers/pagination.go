package scrapers

import (
	"context"
	"log"
)

// maxPages bounds every extractor run regardless of how many result pages
// the retailer claims to have.
const maxPages = 5

// pageDriver is one retailer page sequence. Extract reads the current page;
// Next advances to the given page number, reporting false when there is
// nowhere left to go. Failed transitions are final, never retried.
type pageDriver interface {
	Extract(ctx context.Context) ([]rawCandidate, error)
	Next(ctx context.Context, page int) (bool, error)
}

// paginate accumulates raw candidates across up to maxPages pages. Any
// error, a missing next control, or (when stopOnEmpty is set) an empty page
// ends the run with whatever was gathered so far.
func paginate(ctx context.Context, name string, d pageDriver, stopOnEmpty bool) []rawCandidate {
	var all []rawCandidate
	for page := 1; ; page++ {
		raws, err := d.Extract(ctx)
		if err != nil {
			log.Printf("[%s] page %d extraction failed: %v", name, page, err)
			return all
		}
		all = append(all, raws...)
		log.Printf("[%s] page %d: %d candidates", name, page, len(raws))

		if stopOnEmpty && len(raws) == 0 {
			return all
		}
		if page >= maxPages {
			return all
		}

		ok, err := d.Next(ctx, page+1)
		if err != nil {
			log.Printf("[%s] pagination stopped: %v", name, err)
			return all
		}
		if !ok {
			return all
		}
	}
}
