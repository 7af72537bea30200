package scrapers

import (
	"fmt"
	"net/url"
	"strings"
)

// The extraction snippets run inside the page and return raw candidates
// only: name, link, image and the container's full text. All price parsing,
// id derivation and validation happens on the Go side where it is testable.

func cardExtractJS(r Retailer) string {
	nameExpr := `(function(card){
		var links = card.querySelectorAll('a');
		for (var i = 0; i < links.length; i++) {
			var t = links[i].textContent.trim();
			if (t.length > 10) return {name: t, url: links[i].href};
		}
		return {name: '', url: ''};
	})(card)`
	if r.NameSelectors != "" {
		nameExpr = fmt.Sprintf(`(function(card){
			var el = card.querySelector(%q);
			var link = card.querySelector('a');
			return {name: el ? el.textContent.trim() : '', url: link ? link.href : ''};
		})(card)`, r.NameSelectors)
	}

	return fmt.Sprintf(`
	(function() {
		var items = [];
		var cards = document.querySelectorAll(%q);
		cards.forEach(function(card) {
			try {
				var id = %s;
				if (!id.name || !id.url) return;
				var img = card.querySelector('img');
				var image = img ? (img.src || img.getAttribute('data-src') || img.getAttribute('data-lazy-src') || '') : '';
				items.push({name: id.name, url: id.url, image: image, text: card.textContent});
			} catch (err) {}
		});
		return items;
	})()`, r.CardSelector, nameExpr)
}

// heuristicScanJS handles shops without a stable product-card class: any
// element whose text carries a euro amount and whose child count fits a
// "single product summary" is treated as a container, and a long non-price
// anchor nearby supplies the name.
func heuristicScanJS(Retailer) string {
	return `
	(function() {
		var items = [];
		var containers = [];
		var all = document.querySelectorAll('*');
		for (var i = 0; i < all.length; i++) {
			var el = all[i];
			var text = el.textContent;
			if (text && /\d+[\s.]*\d+,\d+€/.test(text) && el.children.length > 2 && el.children.length < 30) {
				containers.push(el);
			}
		}
		containers.forEach(function(el) {
			try {
				var links = el.querySelectorAll('a');
				if (!links.length && el.parentElement) links = el.parentElement.querySelectorAll('a');
				if (!links.length && el.parentElement && el.parentElement.parentElement) {
					links = el.parentElement.parentElement.querySelectorAll('a');
				}
				var name = '', url = '';
				for (var j = 0; j < links.length; j++) {
					var t = links[j].textContent.trim();
					if (t && t.length > 10 && t.indexOf('€') === -1) {
						name = t;
						url = links[j].href;
						break;
					}
				}
				if (!name || !url) return;
				var img = el.querySelector('img');
				if (!img && el.parentElement) img = el.parentElement.querySelector('img');
				if (!img && el.parentElement && el.parentElement.parentElement) {
					img = el.parentElement.parentElement.querySelector('img');
				}
				var image = img ? (img.src || img.getAttribute('data-src') || '') : '';
				items.push({name: name, url: url, image: image, text: el.textContent});
			} catch (err) {}
		});
		return items;
	})()`
}

// linkScanJS keeps only anchors on the retailer's own domain: result pages
// mix product links with ads and social links that also sit next to prices.
func linkScanJS(r Retailer) string {
	return fmt.Sprintf(`
	(function() {
		var excluded = %s;
		var items = [];
		var anchors = Array.prototype.slice.call(document.querySelectorAll('a'));
		anchors.forEach(function(link) {
			try {
				var text = link.textContent.trim();
				var href = link.href;
				if (text.length <= %d || !href) return;
				if (href.indexOf(%q) === -1) return;
				for (var i = 0; i < excluded.length; i++) {
					if (href.indexOf(excluded[i]) !== -1) return;
				}
				if (href.split('/').length <= %d) return;
				var container = link.closest('div, article, section');
				if (!container) return;
				var img = container.querySelector('img');
				var image = img ? (img.src || img.getAttribute('data-src') || '') : '';
				items.push({name: text, url: href, image: image, text: container.textContent});
			} catch (err) {}
		});
		return items;
	})()`, jsStringArray(r.ExcludeURLParts), r.MinLinkTextLen, baseDomain(r.BaseURL)+"/", r.MinPathSegments)
}

// baseDomain reduces a base URL to the bare host used for positive link
// filtering: "https://www.pcdiga.com" -> "pcdiga.com".
func baseDomain(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func articleScanJS(r Retailer) string {
	return fmt.Sprintf(`
	(function() {
		var excluded = %s;
		var items = [];
		var articles = Array.prototype.slice.call(document.querySelectorAll('article'));
		articles.forEach(function(article) {
			try {
				var links = Array.prototype.slice.call(article.querySelectorAll('a'));
				var found = null;
				for (var i = 0; i < links.length; i++) {
					var href = links[i].href;
					var text = links[i].textContent.trim();
					if (!href || text.length <= %d) continue;
					var skip = false;
					for (var j = 0; j < excluded.length; j++) {
						if (href.indexOf(excluded[j]) !== -1) { skip = true; break; }
					}
					if (!skip) { found = links[i]; break; }
				}
				if (!found) return;
				var img = article.querySelector('img');
				var image = img ? img.src || '' : '';
				items.push({name: found.textContent.trim(), url: found.href, image: image, text: article.textContent});
			} catch (err) {}
		});
		return items;
	})()`, jsStringArray(r.ExcludeURLParts), r.MinLinkTextLen)
}

func jsStringArray(parts []string) string {
	out := "["
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", p)
	}
	return out + "]"
}

func extractJS(r Retailer) string {
	switch r.Strategy {
	case StrategyHeuristicScan:
		return heuristicScanJS(r)
	case StrategyLinkScan:
		return linkScanJS(r)
	case StrategyArticleScan:
		return articleScanJS(r)
	default:
		return cardExtractJS(r)
	}
}
