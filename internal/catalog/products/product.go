package products

// Column names as they appear in the header row of the catalog CSV.
const (
	ColumnNameDE         = "Deutscher Artikelname"
	ColumnNameRU         = "Russischer Artikelname"
	ColumnNetWeight      = "Nettogewicht"
	ColumnProteinPer100g = "Eiweiß in g (auf 100g)"
	ColumnProteinPerUnit = "Eiweiß in g (Pro Stück)"
	ColumnPrice          = "Preis in €"
	ColumnImageID        = "Bild uuid"
	ColumnGroup          = "Gruppe"
)

// Columns lists the recognised columns in file order.
var Columns = []string{
	ColumnNameDE,
	ColumnNameRU,
	ColumnNetWeight,
	ColumnProteinPer100g,
	ColumnProteinPerUnit,
	ColumnPrice,
	ColumnImageID,
	ColumnGroup,
}

// Product is one parsed CSV row. Values are kept verbatim as strings.
type Product struct {
	NameDE         string
	NameRU         string
	NetWeight      string
	ProteinPer100g string
	ProteinPerUnit string
	Price          string
	ImageID        string
	Group          string
}

// FromFields builds a product from a column-name keyed mapping. Unknown keys are ignored.
func FromFields(fields map[string]string) Product {
	return Product{
		NameDE:         fields[ColumnNameDE],
		NameRU:         fields[ColumnNameRU],
		NetWeight:      fields[ColumnNetWeight],
		ProteinPer100g: fields[ColumnProteinPer100g],
		ProteinPerUnit: fields[ColumnProteinPerUnit],
		Price:          fields[ColumnPrice],
		ImageID:        fields[ColumnImageID],
		Group:          fields[ColumnGroup],
	}
}

// Field returns the value stored under the given CSV column name.
func (p Product) Field(column string) (string, bool) {
	switch column {
	case ColumnNameDE:
		return p.NameDE, true
	case ColumnNameRU:
		return p.NameRU, true
	case ColumnNetWeight:
		return p.NetWeight, true
	case ColumnProteinPer100g:
		return p.ProteinPer100g, true
	case ColumnProteinPerUnit:
		return p.ProteinPerUnit, true
	case ColumnPrice:
		return p.Price, true
	case ColumnImageID:
		return p.ImageID, true
	case ColumnGroup:
		return p.Group, true
	default:
		return "", false
	}
}

// Fields returns the product as a column-name keyed mapping.
func (p Product) Fields() map[string]string {
	out := make(map[string]string, len(Columns))
	for _, column := range Columns {
		out[column], _ = p.Field(column)
	}
	return out
}
