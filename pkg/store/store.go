// Package store persists scraped products and reconciles fresh scrape
// passes against previous ones: insert-or-update by (external id, retailer),
// staleness eviction sparing favorited rows.
package store

import (
	"context"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
)

// RetentionWindow is how long a product survives without being re-seen by a
// scrape before the eviction sweep removes it.
const RetentionWindow = 7 * 24 * time.Hour

// Store is the persistence boundary of the scraping pipeline.
type Store interface {
	// Upsert reconciles one retailer's candidates: rows already known by
	// (external id, retailer) get their mutable fields refreshed and
	// last_updated bumped, unknown ones are inserted. A single bad row is
	// logged and skipped, never aborting the batch.
	Upsert(ctx context.Context, cands []models.Candidate, retailer string) (created, updated int, err error)

	// EvictStale deletes rows whose last_updated is older than the cutoff
	// and that no favorite references.
	EvictStale(ctx context.Context, olderThan time.Duration) (int64, error)

	FindByExternalID(ctx context.Context, externalID, retailer string) (*models.Product, error)

	// AddFavorite pins a product row so eviction never removes it.
	AddFavorite(ctx context.Context, userID, productID int64) error

	Close() error
}

// FilterPersistable drops demo-marked candidates; canned data is served to
// users but never written to the database.
func FilterPersistable(cands []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.IsDemo() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Open picks the backend: Postgres when a DSN is given, the local SQLite
// file otherwise.
func Open(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if databaseURL != "" {
		return OpenPostgres(ctx, databaseURL)
	}
	return OpenSQLite(sqlitePath)
}
