package domain

type Product struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category string   `json:"category" yaml:"category"`
	Price    float64  `json:"price" yaml:"price"`
	Sizes    []string `json:"sizes" yaml:"sizes"`
	Colors   []string `json:"colors" yaml:"colors"`
	Images   []string `json:"images" yaml:"images"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	p.Sizes = cloneStrings(p.Sizes)
	p.Colors = cloneStrings(p.Colors)
	p.Images = cloneStrings(p.Images)
	return p
}

func (p Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
