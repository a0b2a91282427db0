package equipcsv

// Profile maps equipment fields to the column headers of one export layout.
// Only Name and Serial are required for a profile to match.
type Profile struct {
	Name         string
	NameCol      string
	SerialCol    string
	ModelCol     string
	MakerCol     string
	LocationCol  string
	NotesCol     string
	PurchaseCol  string
	WarrantyFrom string
	WarrantyTo   string
	IntervalCol  string
}

func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.SerialCol}
}

var profiles = []Profile{
	{
		Name:         "english",
		NameCol:      "name",
		SerialCol:    "serial number",
		ModelCol:     "model",
		MakerCol:     "manufacturer",
		LocationCol:  "location",
		NotesCol:     "notes",
		PurchaseCol:  "purchase date",
		WarrantyFrom: "warranty start",
		WarrantyTo:   "warranty end",
		IntervalCol:  "service interval (days)",
	},
	{
		Name:         "spanish",
		NameCol:      "nombre",
		SerialCol:    "número de serie",
		ModelCol:     "modelo",
		MakerCol:     "fabricante",
		LocationCol:  "ubicación",
		NotesCol:     "notas",
		PurchaseCol:  "fecha de compra",
		WarrantyFrom: "inicio de garantía",
		WarrantyTo:   "fin de garantía",
		IntervalCol:  "intervalo de servicio (días)",
	},
}
