package service

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"purchaseinbox/internal/services/scraper/domain"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// page is everything the extractor reads from one document
type page struct {
	meta      map[string]string // property or name, lowercased, first wins
	title     string
	imageSrc  string
	jsonLD    []string
	itemPrice string
	itemCurr  string
}

func parsePage(body []byte) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p := &page{meta: map[string]string{}}
	p.walk(doc)
	return p, nil
}

func (p *page) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Meta:
			content := attr(n, "content")
			for _, k := range []string{"property", "name"} {
				if key := strings.ToLower(strings.TrimSpace(attr(n, k))); key != "" {
					if _, seen := p.meta[key]; !seen {
						p.meta[key] = strings.TrimSpace(content)
					}
				}
			}
		case atom.Title:
			if p.title == "" {
				p.title = collapse(text(n))
			}
		case atom.Link:
			if p.imageSrc == "" && strings.EqualFold(attr(n, "rel"), "image_src") {
				p.imageSrc = strings.TrimSpace(attr(n, "href"))
			}
		case atom.Script:
			if strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
				p.jsonLD = append(p.jsonLD, text(n))
			}
			return
		case atom.Style:
			return
		}

		switch attr(n, "itemprop") {
		case "price":
			if p.itemPrice == "" {
				p.itemPrice = firstNonEmpty(attr(n, "content"), collapse(text(n)))
			}
		case "priceCurrency":
			if p.itemCurr == "" {
				p.itemCurr = firstNonEmpty(attr(n, "content"), collapse(text(n)))
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

// price runs the cascade; the first tier yielding a positive value wins
func (p *page) price() (float64, string, domain.PriceSource) {
	for _, raw := range p.jsonLD {
		if v, cur, ok := jsonLDPrice(raw); ok {
			return v, cur, domain.PriceJSONLD
		}
	}
	for _, pre := range []string{"og:price", "product:price"} {
		if v, ok := parsePrice(p.meta[pre+":amount"]); ok {
			return v, p.meta[pre+":currency"], domain.PriceMeta
		}
	}
	if v, ok := parsePrice(p.itemPrice); ok {
		return v, p.itemCurr, domain.PriceMicrodata
	}
	if label := p.meta["twitter:data1"]; label != "" {
		if v, ok := parsePrice(label); ok {
			return v, labelCurrency(label), domain.PriceLabel
		}
	}
	return 0, "", domain.PriceNone
}

func (p *page) first(keys ...string) string {
	for _, k := range keys {
		if v := p.meta[k]; v != "" {
			return v
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// jsonLDPrice finds the first Product or ItemPage offer in one ld+json block
func jsonLDPrice(raw string) (float64, string, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return 0, "", false
	}
	return findOffer(v, 0)
}

func findOffer(v any, depth int) (float64, string, bool) {
	if depth > 8 {
		return 0, "", false
	}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if p, c, ok := findOffer(e, depth+1); ok {
				return p, c, true
			}
		}
	case map[string]any:
		if hasType(t, "Product") {
			if p, c, ok := offerPrice(t["offers"]); ok {
				return p, c, true
			}
		}
		if hasType(t, "ItemPage") || hasType(t, "WebPage") {
			if p, c, ok := findOffer(t["mainEntity"], depth+1); ok {
				return p, c, true
			}
		}
		if g, ok := t["@graph"]; ok {
			return findOffer(g, depth+1)
		}
	}
	return 0, "", false
}

func hasType(m map[string]any, want string) bool {
	switch t := m["@type"].(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

func offerPrice(v any) (float64, string, bool) {
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if p, c, ok := offerPrice(e); ok {
				return p, c, true
			}
		}
	case map[string]any:
		cur, _ := t["priceCurrency"].(string)
		for _, k := range []string{"price", "lowPrice"} {
			if p, ok := jsonNumber(t[k]); ok {
				return p, cur, true
			}
		}
		if spec, ok := t["priceSpecification"]; ok {
			if p, c, ok := offerPrice(spec); ok {
				return p, firstNonEmpty(c, cur), true
			}
		}
	}
	return 0, "", false
}

func jsonNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t > 0
	case string:
		return parsePrice(t)
	}
	return 0, false
}

// parsePrice reads the first number in s, accepting 1,299.99 and 19,99 forms
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && (s[end] == ',' || s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	num := strings.TrimRight(s[start:end], ".,")

	lastDot, lastComma := strings.LastIndexByte(num, '.'), strings.LastIndexByte(num, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			num = strings.ReplaceAll(num, ".", "")
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case lastComma >= 0:
		if len(num)-lastComma-1 == 2 && strings.Count(num, ",") == 1 {
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case strings.Count(num, ".") > 1:
		num = strings.ReplaceAll(num, ".", "")
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// labelCurrency pulls a symbol or ISO code out of a display label like "$19.99" or "19.99 EUR"
func labelCurrency(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.IndexFunc(label, unicode.IsDigit); i > 0 {
		if pre := strings.TrimSpace(label[:i]); pre != "" {
			return pre
		}
	}
	fields := strings.Fields(label)
	if n := len(fields); n > 1 {
		if last := fields[n-1]; len(last) == 3 && strings.ToUpper(last) == last {
			return last
		}
	}
	return ""
}

// resolve makes ref absolute against base, unparsable refs are dropped
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
