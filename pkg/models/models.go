package models

// Category is one link on the categories (or subcategories) listing page.
// Subcategories share the same shape and are scoped to a parent category.
type Category struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ExhibitorRecord holds the fields scraped from one exhibitor detail page.
// A record is valid only if every field is non-empty after trimming.
type ExhibitorRecord struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Booth       string `json:"booth"`
}

// Row is the persisted CSV row: the record combined with its position in the
// category tree.
type Row struct {
	Category    string
	Subcategory string
	ExhibitorRecord
}

// Values returns the row fields in the fixed CSV column order.
func (r Row) Values() []string {
	return []string{
		r.Category,
		r.Subcategory,
		r.CompanyName,
		r.Address,
		r.Website,
		r.Phone,
		r.Description,
		r.Booth,
	}
}
