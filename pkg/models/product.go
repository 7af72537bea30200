package models

import (
	"strings"
	"time"
)

// DemoIDPrefix marks canned demo records. Anything carrying it is shown to
// the user as non-authoritative and is never persisted.
const DemoIDPrefix = "demo_"

const (
	ConditionNew  = "Novo"
	ConditionUsed = "Usado"

	AvailabilityAvailable   = "Disponível"
	AvailabilityUnavailable = "Indisponível"
)

// Candidate is one raw product record extracted from a retailer's search
// results, validated and normalized but not yet persisted.
type Candidate struct {
	ExternalID    string  `json:"external_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	URL           string  `json:"url"`
	ImageURL      string  `json:"image_url"`
	Retailer      string  `json:"retailer"`
	Condition     string  `json:"condition"`
	Availability  string  `json:"availability"`
	Seller        string  `json:"seller"`
}

// IsDemo reports whether the candidate belongs to the canned demo dataset.
func (c Candidate) IsDemo() bool {
	return strings.HasPrefix(c.ExternalID, DemoIDPrefix)
}

// Product is the persisted row shape.
type Product struct {
	ID            int64     `json:"id"`
	ExternalID    string    `json:"external_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price"`
	URL           string    `json:"url"`
	ImageURL      string    `json:"image_url"`
	Retailer      string    `json:"retailer"`
	Condition     string    `json:"condition"`
	Availability  string    `json:"availability"`
	Seller        string    `json:"seller"`
	LastUpdated   time.Time `json:"last_updated"`
}

// StoreResult groups one retailer's candidates in a search response.
type StoreResult struct {
	Store    string      `json:"store"`
	Count    int         `json:"count"`
	Products []Candidate `json:"products"`
}
