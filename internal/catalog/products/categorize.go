package products

// Group is the set of products sharing one category value, in source order.
type Group struct {
	Name     string
	Products []Product
}

// Categorize groups products by their Group field. Groups appear in the order
// their category is first seen. The category string is used verbatim, so
// "Obst" and "obst " form distinct groups. Products with an empty category
// are dropped.
func Categorize(items []Product) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, p := range items {
		if p.Group == "" {
			continue
		}
		i, ok := index[p.Group]
		if !ok {
			i = len(groups)
			index[p.Group] = i
			groups = append(groups, Group{Name: p.Group})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// Count returns the number of products across all groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Products)
	}
	return n
}
