package reference

import "sort"

// EnumDirectory describes one catalog of allowed codes (car colors, federative units, ...).
type EnumDirectory struct {
	Name  string     `yaml:"name" json:"name"`
	Items []EnumItem `yaml:"items" json:"items"`
}

type EnumItem struct {
	Code  string `yaml:"code" json:"code"`
	Name  string `yaml:"name" json:"name"`
	Order int    `yaml:"order,omitempty" json:"order,omitempty"`
}

// Codes returns the item codes ordered by Order, keeping file order for ties.
func (d EnumDirectory) Codes() []string {
	items := append([]EnumItem(nil), d.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

// Lookup finds an item by its exact code.
func (d EnumDirectory) Lookup(code string) (EnumItem, bool) {
	for _, it := range d.Items {
		if it.Code == code {
			return it, true
		}
	}
	return EnumItem{}, false
}
