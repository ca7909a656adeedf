package cart

import (
	"github.com/glowmart/storefront-cart/api/validators"
	cartsvc "github.com/glowmart/storefront-cart/internal/cart"
)

type addItemRequest struct {
	ProductID     string   `json:"productId" validate:"required"`
	Qty           int      `json:"qty" validate:"required"`
	Name          string   `json:"name" validate:"max=200"`
	Image         string   `json:"image" validate:"omitempty,url"`
	Price         *float64 `json:"price"`
	LabelledPrice *float64 `json:"labelledPrice"`
}

type setQuantityRequest struct {
	Qty int `json:"qty" validate:"min=0"`
}

func (p addItemRequest) snapshot() *cartsvc.Snapshot {
	snap := &cartsvc.Snapshot{
		Name:          validators.SanitizeString(p.Name, 200),
		Price:         p.Price,
		LabelledPrice: p.LabelledPrice,
	}
	if image := validators.SanitizeString(p.Image, 2048); image != "" {
		snap.Images = []string{image}
	}
	return snap
}
