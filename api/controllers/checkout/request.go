package checkout

import (
	"github.com/glowmart/storefront-cart/api/validators"
	checkoutsvc "github.com/glowmart/storefront-cart/internal/checkout"
	"github.com/glowmart/storefront-cart/internal/orders"
)

type buyNowRequest struct {
	ProductID     string   `json:"productId" validate:"required"`
	Qty           int      `json:"qty" validate:"omitempty,min=1"`
	Name          string   `json:"name" validate:"max=200"`
	Image         string   `json:"image" validate:"omitempty,url"`
	Price         *float64 `json:"price"`
	LabelledPrice *float64 `json:"labelledPrice"`
}

type paymentInfoRequest struct {
	Method string `json:"method" validate:"required"`
}

type submitOrderRequest struct {
	Name           string             `json:"name" validate:"required,max=200"`
	Address        string             `json:"address" validate:"required,max=500"`
	Phone          string             `json:"phone" validate:"required,max=40"`
	Email          string             `json:"email" validate:"omitempty,email"`
	City           string             `json:"city" validate:"required,max=120"`
	Country        string             `json:"country" validate:"required,max=120"`
	Zip            string             `json:"zip" validate:"required,max=20"`
	ShippingMethod string             `json:"shippingMethod" validate:"required"`
	PaymentInfo    paymentInfoRequest `json:"paymentInfo" validate:"required"`
}

func (p buyNowRequest) staged() checkoutsvc.StagedProduct {
	return checkoutsvc.StagedProduct{
		ProductID:     p.ProductID,
		Qty:           p.Qty,
		Name:          validators.SanitizeString(p.Name, 200),
		Image:         validators.SanitizeString(p.Image, 2048),
		Price:         p.Price,
		LabelledPrice: p.LabelledPrice,
	}
}

func (p submitOrderRequest) input() orders.SubmitInput {
	return orders.SubmitInput{
		Name:           validators.SanitizeString(p.Name, 200),
		Address:        validators.SanitizeString(p.Address, 500),
		Phone:          validators.SanitizeString(p.Phone, 40),
		Email:          validators.SanitizeString(p.Email, 254),
		City:           validators.SanitizeString(p.City, 120),
		Country:        validators.SanitizeString(p.Country, 120),
		Zip:            validators.SanitizeString(p.Zip, 20),
		ShippingMethod: p.ShippingMethod,
		PaymentInfo:    orders.PaymentInfo{Method: p.PaymentInfo.Method},
	}
}
