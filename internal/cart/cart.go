package cart

import "github.com/shopspring/decimal"

// Line is one row in a cart, unique by product. Name, image and prices are
// display snapshots captured when the product first entered the cart; they
// are never re-synced with the live catalog.
type Line struct {
	ProductID     string   `json:"productId"`
	Qty           int      `json:"qty"`
	Name          string   `json:"name,omitempty"`
	Image         string   `json:"image,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	LabelledPrice *float64 `json:"labelledPrice,omitempty"`
}

// Cart is the ordered list of lines for one owner. Order is insertion order;
// no two lines share a ProductID.
type Cart []Line

// Snapshot carries the product display fields captured at add-time.
type Snapshot struct {
	Name          string
	Images        []string
	Price         *float64
	LabelledPrice *float64
}

func (c Cart) index(productID string) int {
	for i, line := range c {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// Find returns the line for the product, if present.
func (c Cart) Find(productID string) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c[i], true
	}
	return Line{}, false
}

// ItemCount is the sum of quantities across all lines.
func (c Cart) ItemCount() int {
	total := 0
	for _, line := range c {
		total += line.Qty
	}
	return total
}

// Subtotal sums price*qty over all lines using the add-time price snapshots.
// A line without a price snapshot contributes zero.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c {
		if line.Price == nil {
			continue
		}
		price := decimal.NewFromFloat(*line.Price)
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return sum
}

// TotalSavings sums (labelledPrice-price)*qty over lines whose labelled price
// exceeds the selling price. Other lines contribute zero.
func (c Cart) TotalSavings() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c {
		if line.Price == nil || line.LabelledPrice == nil {
			continue
		}
		if *line.LabelledPrice <= *line.Price {
			continue
		}
		saving := decimal.NewFromFloat(*line.LabelledPrice).Sub(decimal.NewFromFloat(*line.Price))
		sum = sum.Add(saving.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return sum
}

func newLine(productID string, qty int, snap *Snapshot) Line {
	if snap == nil {
		return Line{ProductID: productID, Qty: qty}
	}
	line := Line{
		ProductID:     productID,
		Qty:           qty,
		Name:          snap.Name,
		Price:         copyFloatPtr(snap.Price),
		LabelledPrice: copyFloatPtr(snap.LabelledPrice),
	}
	if len(snap.Images) > 0 {
		line.Image = snap.Images[0]
	}
	return line
}

func copyFloatPtr(src *float64) *float64 {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
