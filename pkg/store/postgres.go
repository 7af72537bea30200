package store

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production store, shared with the API layer.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			external_id TEXT NOT NULL,
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			original_price NUMERIC(12,2) NOT NULL,
			url TEXT,
			image_url TEXT,
			retailer TEXT NOT NULL,
			condition TEXT NOT NULL DEFAULT 'Novo',
			availability TEXT NOT NULL DEFAULT 'Disponível',
			seller TEXT,
			last_updated TIMESTAMPTZ NOT NULL,
			UNIQUE (external_id, retailer)
		);
		CREATE TABLE IF NOT EXISTS favorites (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL REFERENCES products(id),
			UNIQUE (user_id, product_id)
		);
	`)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Upsert(ctx context.Context, cands []models.Candidate, retailer string) (int, int, error) {
	var created, updated int
	for _, c := range cands {
		now := time.Now().UTC()

		var id int64
		err := s.pool.QueryRow(ctx,
			`SELECT id FROM products WHERE external_id = $1 AND retailer = $2`,
			c.ExternalID, retailer,
		).Scan(&id)

		switch {
		case err == nil:
			_, err = s.pool.Exec(ctx,
				`UPDATE products
				 SET name = $1, price = $2, original_price = $3, url = $4, image_url = $5,
				     condition = $6, availability = $7, seller = $8, last_updated = $9
				 WHERE id = $10`,
				c.Name, c.Price, c.OriginalPrice, c.URL, c.ImageURL,
				c.Condition, c.Availability, c.Seller, now, id,
			)
			if err != nil {
				log.Printf("Store: update %s/%s failed: %v", retailer, c.ExternalID, err)
				continue
			}
			updated++

		case errors.Is(err, pgx.ErrNoRows):
			_, err = s.pool.Exec(ctx,
				`INSERT INTO products
				 (external_id, name, price, original_price, url, image_url,
				  retailer, condition, availability, seller, last_updated)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
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

func (s *Postgres) EvictStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM products
		 WHERE last_updated < $1
		 AND id NOT IN (SELECT product_id FROM favorites)`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Postgres) FindByExternalID(ctx context.Context, externalID, retailer string) (*models.Product, error) {
	var p models.Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, external_id, name, price, original_price, url, image_url,
		        retailer, condition, availability, seller, last_updated
		 FROM products WHERE external_id = $1 AND retailer = $2`,
		externalID, retailer,
	).Scan(&p.ID, &p.ExternalID, &p.Name, &p.Price, &p.OriginalPrice, &p.URL,
		&p.ImageURL, &p.Retailer, &p.Condition, &p.Availability, &p.Seller, &p.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) AddFavorite(ctx context.Context, userID, productID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	return err
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}
