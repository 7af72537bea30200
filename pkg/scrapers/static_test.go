package scrapers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/normalize"
)

func TestStaticScraperScrape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Logf("Received request for: %s", r.URL.String())

		response := `
<!DOCTYPE html>
<html>
<body>
	<div class="product-item">
		<h2 class="product-name">Portátil Lenovo IdeaPad 3 15ITL6</h2>
		<span class="product-price">antes 649,99 € agora 549,99 €</span>
		<div class="product-image"><img src="/img/ideapad3.jpg"></div>
		<a class="product-link" href="/portatil-lenovo-ideapad-3">ver</a>
	</div>
	<div class="product-item">
		<h2 class="product-name">Portátil HP 15s-fq5011np</h2>
		<span class="product-price">579,00 €</span>
		<div class="product-image"><img src="/img/hp15s.jpg"></div>
		<a class="product-link" href="/portatil-hp-15s">ver</a>
	</div>
	<div class="product-item">
		<h2 class="product-name">Produto esgotado</h2>
		<span class="product-price">sem preço</span>
		<a class="product-link" href="/produto-esgotado">ver</a>
	</div>
</body>
</html>
`
		fmt.Fprintln(w, response)
	}))
	defer ts.Close()

	r := Retailer{
		Name:            "PCBem",
		Slug:            "pcbem",
		BaseURL:         ts.URL,
		SearchURL:       ts.URL + "/pesquisa?q=%s",
		NavTimeout:      5 * time.Second,
		PriceCeiling:    20000,
		ListPriceMarkup: 1.10,
		DedupKey:        normalize.DedupByURL,
		Static: StaticSelectors{
			Card:  ".product-item",
			Name:  ".product-name",
			Price: ".product-price",
			Image: ".product-image img",
			Link:  ".product-link",
		},
	}

	cands := NewStatic(r).Scrape(context.Background(), "portátil")
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(cands), cands)
	}

	first := cands[0]
	if first.Name != "Portátil Lenovo IdeaPad 3 15ITL6" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Price != 649.99 {
		t.Errorf("price = %v, want 649.99 (max of both tokens)", first.Price)
	}
	if first.ExternalID != "pcbem_portatil-lenovo-ideapad-3" {
		t.Errorf("external id = %q", first.ExternalID)
	}
	if first.URL != ts.URL+"/portatil-lenovo-ideapad-3" {
		t.Errorf("url = %q", first.URL)
	}

	if cands[1].Price != 579.00 {
		t.Errorf("second price = %v, want 579.00", cands[1].Price)
	}
}
