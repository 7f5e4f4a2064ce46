package models

// Domain is a top-level course category with its subcategories
type Domain struct {
	Value         string   `json:"value"`
	Label         string   `json:"label"`
	Subcategories []string `json:"subcategories"`
}

// CatalogOptions are the choices offered by the course form
type CatalogOptions struct {
	Domains     []Domain `json:"domains"`
	Platforms   []string `json:"platforms"`
	SkillLevels []string `json:"skillLevels"`
	PriceRanges []string `json:"priceRanges"`
}

// Subcategories returns the subcategories of the domain with the given value
func (o *CatalogOptions) Subcategories(domain string) []string {
	for _, d := range o.Domains {
		if d.Value == domain {
			return d.Subcategories
		}
	}
	return nil
}

// DomainLabel maps a stored category value to its display label, falling back to the value
func (o *CatalogOptions) DomainLabel(domain string) string {
	for _, d := range o.Domains {
		if d.Value == domain {
			return d.Label
		}
	}
	return domain
}
