package domain

import "testing"

var amazon = Config{DomainPattern: "amazon.", Network: "amazon", AffiliateID: "inbox-20", Strategy: StrategyQueryParam, ParamName: "tag"}

func TestRewrite(t *testing.T) {
	t.Parallel()
	wrap := Config{
		DomainPattern: "etsy.com", Network: "awin", AffiliateID: "123",
		Strategy: StrategyWrap, WrapTemplate: "https://www.awin1.com/cread.php?awinaffid={affiliate_id}&ued={url}",
	}
	cases := []struct {
		name    string
		in      string
		cfgs    []Config
		want    string
		matched bool
	}{
		{"no match unchanged", "https://shop.example.com/p?id=1", []Config{amazon}, "https://shop.example.com/p?id=1", false},
		{"no configs", "https://amazon.com/dp/X", nil, "https://amazon.com/dp/X", false},
		{"query param", "https://www.amazon.com/dp/B0?ref=x", []Config{amazon}, "https://www.amazon.com/dp/B0?ref=x&tag=inbox-20", true},
		{"query param replaces", "https://amazon.co.uk/dp/B0?tag=other", []Config{amazon}, "https://amazon.co.uk/dp/B0?tag=inbox-20", true},
		{"host case folded", "https://WWW.AMAZON.DE/dp/B0", []Config{amazon}, "https://WWW.AMAZON.DE/dp/B0?tag=inbox-20", true},
		{"wrap", "https://www.etsy.com/listing/1", []Config{wrap}, "https://www.awin1.com/cread.php?awinaffid=123&ued=https%3A%2F%2Fwww.etsy.com%2Flisting%2F1", true},
		{"path does not match", "https://example.com/amazon.com", []Config{amazon}, "https://example.com/amazon.com", false},
		{"unparsable", "://bad", []Config{amazon}, "://bad", false},
		{"relative", "/dp/B0", []Config{amazon}, "/dp/B0", false},
		{"wrap without placeholder ignored", "https://etsy.com/x", []Config{{DomainPattern: "etsy", Strategy: StrategyWrap, WrapTemplate: "https://r.example"}}, "https://etsy.com/x", false},
		{"unknown strategy ignored", "https://amazon.com/x", []Config{{DomainPattern: "amazon", Strategy: "cookie", ParamName: "a", AffiliateID: "b"}}, "https://amazon.com/x", false},
	}
	for _, tc := range cases {
		got, matched := Rewrite(tc.in, tc.cfgs)
		if got != tc.want || matched != tc.matched {
			t.Fatalf("%s: got (%q, %v) want (%q, %v)", tc.name, got, matched, tc.want, tc.matched)
		}
	}
}

func TestRewrite_LayersInOrder(t *testing.T) {
	t.Parallel()
	second := Config{DomainPattern: "amazon", Network: "sub", AffiliateID: "s1", Strategy: StrategyQueryParam, ParamName: "sub"}
	wrap := Config{DomainPattern: "amazon", Network: "redirect", Strategy: StrategyWrap, WrapTemplate: "https://go.example/?u={url}"}

	got, ok := Rewrite("https://amazon.com/dp/B0", []Config{amazon, second, wrap})
	want := "https://go.example/?u=https%3A%2F%2Famazon.com%2Fdp%2FB0%3Fsub%3Ds1%26tag%3Dinbox-20"
	if !ok || got != want {
		t.Fatalf("got %q %v", got, ok)
	}
}
