package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"

	"compass/internal/resolver"
)

// queryFn runs inside the page. It filters to visible elements, derives an
// implicit accessibility role from the tag when none is declared, and
// computes a unique CSS path per match so the locator stays usable after
// the query returns. Matches come back in document order.
const queryFn = `(function(kind, a, b) {
	function visible(el) {
		var s = window.getComputedStyle(el);
		if (s.display === 'none' || s.visibility === 'hidden') return false;
		var r = el.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	}
	function cssPath(el) {
		if (el.id) return '#' + CSS.escape(el.id);
		var parts = [];
		while (el && el.nodeType === 1 && el !== document.documentElement) {
			var idx = 1, sib = el;
			while ((sib = sib.previousElementSibling)) {
				if (sib.tagName === el.tagName) idx++;
			}
			parts.unshift(el.tagName.toLowerCase() + ':nth-of-type(' + idx + ')');
			el = el.parentElement;
		}
		return parts.length ? parts.join(' > ') : 'html';
	}
	function role(el) {
		var declared = el.getAttribute('role');
		if (declared) return declared;
		var tag = el.tagName.toLowerCase();
		if (tag === 'button') return 'button';
		if (tag === 'a' && el.hasAttribute('href')) return 'link';
		if (tag === 'select') return 'combobox';
		if (tag === 'textarea') return 'textbox';
		if (/^h[1-6]$/.test(tag)) return 'heading';
		if (tag === 'input') {
			var t = (el.getAttribute('type') || 'text').toLowerCase();
			if (t === 'checkbox') return 'checkbox';
			if (t === 'radio') return 'radio';
			if (t === 'submit' || t === 'button' || t === 'reset') return 'button';
			if (t === 'hidden') return '';
			return 'textbox';
		}
		if (tag === 'label') return 'label';
		return '';
	}
	function accText(el) {
		var aria = el.getAttribute('aria-label');
		if (aria) return aria;
		if (el.labels && el.labels.length) return el.labels[0].textContent.trim();
		var ph = el.getAttribute('placeholder');
		if (ph) return ph;
		var txt = (el.textContent || '').trim();
		if (txt) return txt;
		if (el.value) return String(el.value);
		return el.getAttribute('name') || '';
	}
	var matched = [];
	if (kind === 'selector') {
		try { matched = Array.prototype.slice.call(document.querySelectorAll(a)).filter(visible); }
		catch (e) { matched = []; }
	} else if (kind === 'roletext') {
		var wantText = b.toLowerCase();
		matched = Array.prototype.slice.call(document.querySelectorAll('*')).filter(function(el) {
			return visible(el) && role(el) === a && accText(el).toLowerCase().indexOf(wantText) !== -1;
		});
	} else if (kind === 'text') {
		var want = a.toLowerCase();
		matched = Array.prototype.slice.call(document.querySelectorAll('*')).filter(function(el) {
			return visible(el) && role(el) !== '' && accText(el).toLowerCase().indexOf(want) !== -1;
		});
		matched = matched.filter(function(el) {
			return !matched.some(function(other) { return other !== el && el.contains(other); });
		});
	} else if (kind === 'type') {
		var sel = a === 'heading' ? 'h1,h2,h3,h4,h5,h6' : a;
		try { matched = Array.prototype.slice.call(document.querySelectorAll(sel)).filter(visible); }
		catch (e) { matched = []; }
	}
	return matched.map(function(el, i) {
		var attrs = {};
		for (var j = 0; j < el.attributes.length; j++) {
			attrs[el.attributes[j].name] = el.attributes[j].value;
		}
		return { selector: cssPath(el), index: i, attributes: attrs };
	});
})`

type queryResult struct {
	Selector   string            `json:"selector"`
	Index      int               `json:"index"`
	Attributes map[string]string `json:"attributes"`
}

func (s *Session) query(ctx context.Context, kind, a, b string) ([]resolver.Candidate, error) {
	expr := fmt.Sprintf("%s(%s, %s, %s)", queryFn, jsString(kind), jsString(a), jsString(b))

	var results []queryResult
	if err := s.run(ctx, chromedp.Evaluate(expr, &results)); err != nil {
		return nil, fmt.Errorf("browser: query %s: %w", kind, err)
	}

	candidates := make([]resolver.Candidate, len(results))
	for i, r := range results {
		candidates[i] = resolver.Candidate{
			Locator:    resolver.Locator{Selector: r.Selector},
			Index:      r.Index,
			Attributes: r.Attributes,
		}
	}
	return candidates, nil
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// --- resolver.DocumentContext ---

func (s *Session) QuerySelector(ctx context.Context, selector string) ([]resolver.Candidate, error) {
	return s.query(ctx, "selector", selector, "")
}

func (s *Session) QueryRoleText(ctx context.Context, role, text string) ([]resolver.Candidate, error) {
	return s.query(ctx, "roletext", role, text)
}

func (s *Session) QueryText(ctx context.Context, text string) ([]resolver.Candidate, error) {
	return s.query(ctx, "text", text, "")
}

func (s *Session) QueryType(ctx context.Context, elemType string) ([]resolver.Candidate, error) {
	return s.query(ctx, "type", elemType, "")
}
