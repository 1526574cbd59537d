package service

import (
	"testing"

	"purchaseinbox/internal/services/scraper/domain"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"19.99", 19.99, true},
		{"$1,299.99", 1299.99, true},
		{"1.299,99 €", 1299.99, true},
		{"19,99", 19.99, true},
		{"1,299", 1299, true},
		{"USD 25", 25, true},
		{"1.234.567", 1234567, true},
		{"0.00", 0, false},
		{"free", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parsePrice(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parsePrice(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPriceCascade(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		html string
		want float64
		cur  string
		src  domain.PriceSource
	}{
		{
			name: "jsonld beats og",
			html: `<html><head>
<meta property="og:price:amount" content="10.00"><meta property="og:price:currency" content="EUR">
<script type="application/ld+json">{"@type":"Product","offers":{"price":"19.99","priceCurrency":"USD"}}</script>
</head></html>`,
			want: 19.99, cur: "USD", src: domain.PriceJSONLD,
		},
		{
			name: "jsonld graph with offers array and lowPrice",
			html: `<script type="application/ld+json">{"@graph":[{"@type":"WebSite"},{"@type":["Product","Thing"],"offers":[{"lowPrice":7.5,"priceCurrency":"GBP"}]}]}</script>`,
			want: 7.5, cur: "GBP", src: domain.PriceJSONLD,
		},
		{
			name: "jsonld item page main entity",
			html: `<script type="application/ld+json">[{"@type":"ItemPage","mainEntity":{"@type":"Product","offers":{"price":42,"priceCurrency":"CAD"}}}]</script>`,
			want: 42, cur: "CAD", src: domain.PriceJSONLD,
		},
		{
			name: "broken jsonld falls to meta",
			html: `<script type="application/ld+json">{not json</script><meta property="product:price:amount" content="12.50"><meta property="product:price:currency" content="EUR">`,
			want: 12.5, cur: "EUR", src: domain.PriceMeta,
		},
		{
			name: "microdata content attribute",
			html: `<div itemscope><meta itemprop="priceCurrency" content="JPY"><span itemprop="price" content="3000">¥3,000</span></div>`,
			want: 3000, cur: "JPY", src: domain.PriceMicrodata,
		},
		{
			name: "microdata text",
			html: `<span itemprop="price"> 8.25 </span>`,
			want: 8.25, src: domain.PriceMicrodata,
		},
		{
			name: "twitter label",
			html: `<meta name="twitter:label1" content="Price"><meta name="twitter:data1" content="$19.99">`,
			want: 19.99, cur: "$", src: domain.PriceLabel,
		},
		{
			name: "nothing",
			html: `<title>Just a page</title>`,
			src:  domain.PriceNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := parsePage([]byte(tc.html))
			if err != nil {
				t.Fatal(err)
			}
			got, cur, src := p.price()
			if got != tc.want || cur != tc.cur || src != tc.src {
				t.Fatalf("price = %v %q %q, want %v %q %q", got, cur, src, tc.want, tc.cur, tc.src)
			}
		})
	}
}

func TestLabelCurrency(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"$19.99":    "$",
		"19,99 EUR": "EUR",
		"CA$ 12":    "CA$",
		"12.00":     "",
	} {
		if got := labelCurrency(in); got != want {
			t.Fatalf("labelCurrency(%q) = %q want %q", in, got, want)
		}
	}
}

func TestPageFirstOccurrenceWins(t *testing.T) {
	t.Parallel()
	p, err := parsePage([]byte(`<meta property="og:title" content="First"><meta property="og:title" content="Second">`))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.first("og:title"); got != "First" {
		t.Fatalf("og:title = %q", got)
	}
}
