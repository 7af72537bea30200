package search

import (
	"fmt"
	"strings"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/models"
)

// Canned listings shown when every retailer came back empty. Keyed by the
// search keywords they answer; prices are plausible but stale by design.
var demoCatalog = map[string][]models.Candidate{
	"ryzen 7": {
		{Name: "AMD Ryzen 7 5800X 8-Core 3.8GHz", Price: 299.99, Retailer: "PCBem"},
		{Name: "AMD Ryzen 7 5700X 8-Core 3.4GHz", Price: 249.90, Retailer: "Chip7"},
		{Name: "AMD Ryzen 7 7700X 8-Core 4.5GHz", Price: 349.99, Retailer: "Worten"},
		{Name: "AMD Ryzen 7 7800X3D 8-Core 4.2GHz", Price: 449.90, Retailer: "Radio Popular"},
	},
	"rtx 4060": {
		{Name: "ASUS GeForce RTX 4060 8GB Dual", Price: 339.99, Retailer: "PCBem"},
		{Name: "MSI GeForce RTX 4060 8GB Ventus", Price: 349.90, Retailer: "Chip7"},
		{Name: "Gigabyte RTX 4060 8GB Eagle", Price: 329.99, Retailer: "Worten"},
		{Name: "Zotac RTX 4060 8GB Twin Edge", Price: 334.90, Retailer: "Radio Popular"},
	},
	"notebook": {
		{Name: "Lenovo IdeaPad Gaming 3 Ryzen 5 RTX 3050", Price: 799.99, Retailer: "PCBem"},
		{Name: "ASUS TUF Gaming A15 Ryzen 7 RTX 4050", Price: 999.90, Retailer: "Chip7"},
		{Name: "HP Pavilion Gaming i5 GTX 1650", Price: 749.90, Retailer: "Worten"},
		{Name: "Acer Nitro 5 i7 RTX 3060", Price: 1199.99, Retailer: "Radio Popular"},
		{Name: "MSI Katana GF66 i7 RTX 4060", Price: 1349.90, Retailer: "PCBem"},
	},
	"monitor": {
		{Name: "ASUS TUF Gaming 24\" FHD 165Hz", Price: 189.99, Retailer: "PCBem"},
		{Name: "LG UltraGear 27\" QHD 144Hz", Price: 299.90, Retailer: "Chip7"},
		{Name: "Samsung Odyssey G5 27\" QHD", Price: 279.90, Retailer: "Worten"},
		{Name: "AOC Gaming 24\" FHD 144Hz", Price: 149.99, Retailer: "Radio Popular"},
	},
}

const demoImage = "https://via.placeholder.com/300"

// DemoResults shapes the canned catalog like a real search response, one
// bucket per retailer, every external id carrying the demo prefix.
func DemoResults(term string) map[string]models.StoreResult {
	termLower := strings.ToLower(term)

	var matched []models.Candidate
	for key, items := range demoCatalog {
		if strings.Contains(termLower, key) || strings.Contains(key, termLower) {
			matched = items
			break
		}
	}

	results := make(map[string]models.StoreResult)
	for i, p := range matched {
		slug := strings.ToLower(strings.ReplaceAll(p.Retailer, " ", ""))
		c := models.Candidate{
			ExternalID:    fmt.Sprintf("%s%s_%d", models.DemoIDPrefix, slug, i),
			Name:          p.Name,
			Price:         p.Price,
			OriginalPrice: p.Price * 1.15,
			ImageURL:      demoImage,
			Retailer:      p.Retailer,
			Condition:     models.ConditionNew,
			Availability:  models.AvailabilityAvailable,
			Seller:        p.Retailer,
		}
		bucket := results[slug]
		bucket.Store = p.Retailer
		bucket.Count++
		bucket.Products = append(bucket.Products, c)
		results[slug] = bucket
	}
	return results
}
