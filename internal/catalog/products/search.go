package products

import "strings"

// Filter returns the products whose German or Russian name contains term,
// ignoring case. An empty term returns every product.
func Filter(items []Product, term string) []Product {
	if term == "" {
		out := make([]Product, len(items))
		copy(out, items)
		return out
	}
	needle := strings.ToLower(term)
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.NameDE), needle) ||
			strings.Contains(strings.ToLower(p.NameRU), needle) {
			out = append(out, p)
		}
	}
	return out
}
