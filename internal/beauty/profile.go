package beauty

import "strings"

// Subtag is a single value inside a beauty category, e.g. "Oily" in "Skin Type".
type Subtag struct {
	Name string `json:"name"`
}

// Category groups subtags under a named beauty trait.
type Category struct {
	Name    string   `json:"name"`
	Subtags []Subtag `json:"subtags"`
}

// Profile is the ordered list of categories a user declared about themselves.
type Profile []Category

// Attribute is a flattened subtag together with the category it came from.
type Attribute struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// IsEmpty reports whether the profile carries no subtag at all.
func (p Profile) IsEmpty() bool {
	for _, category := range p {
		for _, subtag := range category.Subtags {
			if strings.TrimSpace(subtag.Name) != "" {
				return false
			}
		}
	}
	return true
}

// Attributes flattens the profile keeping category order, then subtag order.
// Blank subtags are skipped.
func (p Profile) Attributes() []Attribute {
	attrs := make([]Attribute, 0)
	for _, category := range p {
		for _, subtag := range category.Subtags {
			name := strings.TrimSpace(subtag.Name)
			if name == "" {
				continue
			}
			attrs = append(attrs, Attribute{Name: name, Category: category.Name})
		}
	}
	return attrs
}

// LowerNames returns the lowercase attribute names. Duplicates across
// categories are kept.
func (p Profile) LowerNames() []string {
	attrs := p.Attributes()
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		names = append(names, strings.ToLower(attr.Name))
	}
	return names
}

// OriginalName returns the first subtag name whose lowercase form equals key.
func (p Profile) OriginalName(key string) (string, bool) {
	for _, attr := range p.Attributes() {
		if strings.ToLower(attr.Name) == key {
			return attr.Name, true
		}
	}
	return "", false
}
