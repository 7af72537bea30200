package store

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"

	_ "modernc.org/sqlite"
)

// SQLite is the default store, a single local file. Good for development
// and single-node deploys.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			original_price REAL NOT NULL,
			url TEXT,
			image_url TEXT,
			retailer TEXT NOT NULL,
			condition TEXT NOT NULL DEFAULT 'Novo',
			availability TEXT NOT NULL DEFAULT 'Disponível',
			seller TEXT,
			last_updated DATETIME NOT NULL,
			UNIQUE (external_id, retailer)
		);
		CREATE TABLE IF NOT EXISTS favorites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL REFERENCES products(id),
			UNIQUE (user_id, product_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Upsert(ctx context.Context, cands []models.Candidate, retailer string) (int, int, error) {
	var created, updated int
	for _, c := range cands {
		now := time.Now().UTC()

		var id int64
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM products WHERE external_id = ? AND retailer = ?`,
			c.ExternalID, retailer,
		).Scan(&id)

		switch {
		case err == nil:
			_, err = s.db.ExecContext(ctx,
				`UPDATE products
				 SET name = ?, price = ?, original_price = ?, url = ?, image_url = ?,
				     condition = ?, availability = ?, seller = ?, last_updated = ?
				 WHERE id = ?`,
				c.Name, c.Price, c.OriginalPrice, c.URL, c.ImageURL,
				c.Condition, c.Availability, c.Seller, now, id,
			)
			if err != nil {
				log.Printf("Store: update %s/%s failed: %v", retailer, c.ExternalID, err)
				continue
			}
			updated++

		case errors.Is(err, sql.ErrNoRows):
			_, err = s.db.ExecContext(ctx,
				`INSERT INTO products
				 (external_id, name, price, original_price, url, image_url,
				  retailer, condition, availability, seller, last_updated)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ExternalID, c.Name, c.Price, c.OriginalPrice, c.URL, c.ImageURL,
				retailer, c.Condition, c.Availability, c.Seller, now,
			)
			if err != nil {
				log.Printf("Store: insert %s/%s failed: %v", retailer, c.ExternalID, err)
				continue
			}
			created++

		default:
			log.Printf("Store: lookup %s/%s failed: %v", retailer, c.ExternalID, err)
		}
	}
	return created, updated, nil
}

func (s *SQLite) EvictStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM products
		 WHERE last_updated < ?
		 AND id NOT IN (SELECT product_id FROM favorites)`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLite) FindByExternalID(ctx context.Context, externalID, retailer string) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, external_id, name, price, original_price, url, image_url,
		        retailer, condition, availability, seller, last_updated
		 FROM products WHERE external_id = ? AND retailer = ?`,
		externalID, retailer,
	).Scan(&p.ID, &p.ExternalID, &p.Name, &p.Price, &p.OriginalPrice, &p.URL,
		&p.ImageURL, &p.Retailer, &p.Condition, &p.Availability, &p.Seller, &p.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLite) AddFavorite(ctx context.Context, userID, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, product_id) VALUES (?, ?)
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
