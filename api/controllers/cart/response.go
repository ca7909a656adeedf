package cart

import (
	cartsvc "github.com/glowmart/storefront-cart/internal/cart"
)

type lineView struct {
	ProductID     string   `json:"productId"`
	Qty           int      `json:"qty"`
	Name          string   `json:"name,omitempty"`
	Image         string   `json:"image,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	LabelledPrice *float64 `json:"labelledPrice,omitempty"`
}

type cartView struct {
	Items        []lineView `json:"items"`
	ItemCount    int        `json:"itemCount"`
	Subtotal     string     `json:"subtotal"`
	TotalSavings string     `json:"totalSavings"`
}

type summaryView struct {
	ItemCount    int    `json:"itemCount"`
	Subtotal     string `json:"subtotal"`
	TotalSavings string `json:"totalSavings"`
}

func newCartView(c cartsvc.Cart) cartView {
	items := make([]lineView, 0, len(c))
	for _, line := range c {
		items = append(items, lineView{
			ProductID:     line.ProductID,
			Qty:           line.Qty,
			Name:          line.Name,
			Image:         line.Image,
			Price:         line.Price,
			LabelledPrice: line.LabelledPrice,
		})
	}
	return cartView{
		Items:        items,
		ItemCount:    c.ItemCount(),
		Subtotal:     c.Subtotal().StringFixed(2),
		TotalSavings: c.TotalSavings().StringFixed(2),
	}
}

func newSummaryView(c cartsvc.Cart) summaryView {
	return summaryView{
		ItemCount:    c.ItemCount(),
		Subtotal:     c.Subtotal().StringFixed(2),
		TotalSavings: c.TotalSavings().StringFixed(2),
	}
}
