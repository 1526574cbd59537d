package commerce

import (
	"strconv"
	"strings"
)

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

type image struct {
	Src string `json:"src"`
}

func imageSrc(img *image) string {
	if img == nil {
		return ""
	}
	return strings.TrimSpace(img.Src)
}

func lineField(i int, name string) string {
	return "line_items/" + strconv.Itoa(i) + "/" + name
}

// storeName prefers the configured name then the first label of the domain
func storeName(m Meta) string {
	if n := strings.TrimSpace(m.StoreName); n != "" {
		return n
	}
	return GuessStoreName(m.StoreDomain)
}

// GuessStoreName turns "cool-shop.myshopify.com" into "Cool Shop"
func GuessStoreName(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/:"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")
	label := host
	if i := strings.IndexByte(host, '.'); i > 0 {
		label = host[:i]
	}
	words := strings.FieldsFunc(label, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
