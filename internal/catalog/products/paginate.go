package products

// Section is the slice of one group that falls on a page.
type Section struct {
	// Index is the group's position in the full grouping.
	Index int
	Name  string
	// Continued marks a section whose group started on an earlier page.
	Continued bool
	Products  []Product
}

// Page is one window over the grouped product sequence.
type Page struct {
	Number   int
	Size     int
	Total    int
	HasMore  bool
	Sections []Section
}

// Paginate cuts the grouped sequence (groups in order, products in order within
// each group) into pages of size products and returns page number (1-based).
// A size of zero or less returns everything as a single page.
func Paginate(groups []Group, number, size int) Page {
	if number < 1 {
		number = 1
	}
	total := Count(groups)
	if size <= 0 {
		sections := make([]Section, 0, len(groups))
		for i, g := range groups {
			sections = append(sections, Section{Index: i, Name: g.Name, Products: g.Products})
		}
		return Page{Number: 1, Size: 0, Total: total, Sections: sections}
	}

	// Pages past the end are empty; checked before multiplying so that huge
	// page numbers cannot overflow into an earlier window.
	if number-1 > total/size {
		return Page{Number: number, Size: size, Total: total}
	}
	start := (number - 1) * size
	remaining := total - start
	end := start + min(size, remaining)
	page := Page{Number: number, Size: size, Total: total, HasMore: remaining > size}

	offset := 0
	for i, g := range groups {
		first, last := offset, offset+len(g.Products)
		offset = last
		if last <= start {
			continue
		}
		if first >= end {
			break
		}
		lo := max(start, first) - first
		hi := min(end, last) - first
		page.Sections = append(page.Sections, Section{
			Index:     i,
			Name:      g.Name,
			Continued: lo > 0,
			Products:  g.Products[lo:hi],
		})
	}
	return page
}
