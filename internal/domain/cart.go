package domain

// CartLine is a product snapshot plus the chosen variant. An empty
// SelectedSize or SelectedColor means "no selection".
type CartLine struct {
	LineID string `json:"lineId"`
	Product
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
	Quantity      int    `json:"quantity"`
}

// Variant identifies a cart line: product id plus selected size and color.
type Variant struct {
	ProductID string
	Size      string
	Color     string
}

func (l CartLine) Variant() Variant {
	return Variant{ProductID: l.ID, Size: l.SelectedSize, Color: l.SelectedColor}
}

func (l CartLine) Clone() CartLine {
	l.Product = l.Product.Clone()
	return l
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CloneLines deep-copies lines so callers cannot reach the owner's slices.
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// Count is the badge number: the sum of quantities.
func Count(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Total sums price * quantity over all lines, no rounding.
func Total(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
