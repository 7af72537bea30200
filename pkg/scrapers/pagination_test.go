package scrapers

import (
	"context"
	"testing"
)

// fakeDriver scripts a page sequence: pages holds the candidate count per
// page, hasNext controls whether a next control "exists" after each page.
type fakeDriver struct {
	pages    []int
	hasNext  bool
	current  int
	extracts int
	advances int
}

func (f *fakeDriver) Extract(context.Context) ([]rawCandidate, error) {
	f.extracts++
	n := 0
	if f.current < len(f.pages) {
		n = f.pages[f.current]
	}
	raws := make([]rawCandidate, n)
	for i := range raws {
		raws[i] = rawCandidate{Name: "Produto", URL: "https://example.pt/p", Text: "9,99 €"}
	}
	return raws, nil
}

func (f *fakeDriver) Next(context.Context, int) (bool, error) {
	f.advances++
	if !f.hasNext {
		return false, nil
	}
	f.current++
	return true, nil
}

func TestPaginateHaltsWithoutNextControl(t *testing.T) {
	d := &fakeDriver{pages: []int{3}, hasNext: false}
	raws := paginate(context.Background(), "test", d, false)

	if d.extracts != 1 {
		t.Errorf("visited %d pages, want 1", d.extracts)
	}
	if len(raws) != 3 {
		t.Errorf("got %d candidates, want 3", len(raws))
	}
}

func TestPaginateHaltsAtMaxPages(t *testing.T) {
	d := &fakeDriver{pages: []int{2, 2, 2, 2, 2, 2, 2}, hasNext: true}
	raws := paginate(context.Background(), "test", d, false)

	if d.extracts != maxPages {
		t.Errorf("visited %d pages, want %d", d.extracts, maxPages)
	}
	if d.advances != maxPages-1 {
		t.Errorf("advanced %d times, want %d", d.advances, maxPages-1)
	}
	if len(raws) != 2*maxPages {
		t.Errorf("got %d candidates, want %d", len(raws), 2*maxPages)
	}
}

func TestPaginateStopsOnEmptyPage(t *testing.T) {
	d := &fakeDriver{pages: []int{4, 0, 4}, hasNext: true}
	raws := paginate(context.Background(), "test", d, true)

	if d.extracts != 2 {
		t.Errorf("visited %d pages, want 2", d.extracts)
	}
	if len(raws) != 4 {
		t.Errorf("got %d candidates, want 4", len(raws))
	}
}

func TestNormalizeRawFiltersAndDedups(t *testing.T) {
	r := Retailer{
		Name:            "Chip7",
		Slug:            "chip7",
		BaseURL:         "https://chip7.pt",
		PriceCeiling:    50000,
		ListPriceMarkup: 1.10,
	}

	raws := []rawCandidate{
		{Name: "Portátil ASUS TUF A15", URL: "https://chip7.pt/asus-tuf-a15", Text: "antes 1.099,00 € agora 999,99 €"},
		{Name: "Portátil ASUS TUF A15", URL: "https://chip7.pt/asus-tuf-a15", Text: "antes 1.099,00 € agora 999,99 €"},
		{Name: "", URL: "https://chip7.pt/sem-nome", Text: "9,99 €"},
		{Name: "Monitor sem preço", URL: "https://chip7.pt/monitor", Text: "brevemente"},
		{Name: "Erro de extração", URL: "https://chip7.pt/erro", Text: "999.999,00 €"},
	}

	cands := normalizeRaw(r, raws)
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(cands), cands)
	}

	c := cands[0]
	if c.ExternalID != "chip7_asus-tuf-a15" {
		t.Errorf("external id = %q", c.ExternalID)
	}
	if c.Price != 1099.00 {
		t.Errorf("price = %v, want max token 1099.00", c.Price)
	}
	if c.OriginalPrice != 1208.90 {
		t.Errorf("original price = %v, want 1208.90", c.OriginalPrice)
	}
	if c.Retailer != "Chip7" || c.Seller != "Chip7" {
		t.Errorf("retailer/seller = %q/%q", c.Retailer, c.Seller)
	}
	if c.ImageURL != placeholderImage {
		t.Errorf("image = %q, want placeholder", c.ImageURL)
	}
}

func TestNormalizeRawSwapsEnergyLabelImage(t *testing.T) {
	r := Retailer{
		Name:            "GlobalData",
		Slug:            "globaldata",
		BaseURL:         "https://www.globaldata.pt",
		PriceCeiling:    50000,
		ListPriceMarkup: 1.05,
	}

	raws := []rawCandidate{
		{
			Name:  "Frigorífico Combinado LG GBB72",
			URL:   "https://www.globaldata.pt/frigorifico-lg-gbb72",
			Image: "https://img.globaldata.pt/energy_labels/gbb72.png",
			Text:  "699,99 €",
		},
		{
			Name:  "Máquina de Lavar Samsung WW90",
			URL:   "https://www.globaldata.pt/maquina-samsung-ww90",
			Image: "https://img.globaldata.pt/products/ww90.jpg",
			Text:  "449,99 €",
		},
	}

	cands := normalizeRaw(r, raws)
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].ImageURL != placeholderImage {
		t.Errorf("energy-label image must be swapped for the placeholder, got %q", cands[0].ImageURL)
	}
	if cands[1].ImageURL != "https://img.globaldata.pt/products/ww90.jpg" {
		t.Errorf("real product image must be kept, got %q", cands[1].ImageURL)
	}
}
