package checkout

import (
	"net/http"

	"github.com/glowmart/storefront-cart/api/middleware"
	"github.com/glowmart/storefront-cart/api/responses"
	"github.com/glowmart/storefront-cart/api/validators"
	checkoutsvc "github.com/glowmart/storefront-cart/internal/checkout"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

// BuyNow stages a single product for the owner's next checkout visit.
func BuyNow(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload buyNowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Stage(r.Context(), owner, payload.staged()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "staged"})
	}
}

// Redeem consumes the staged buy-now product into the cart. The storefront
// checkout page calls this once on load.
func Redeem(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Redeem(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

// SubmitOrder sends the cart to the backend order API.
func SubmitOrder(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.BearerTokenFromContext(r.Context())
		orderID, err := svc.SubmitOrder(r.Context(), owner, payload.input(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"orderId": orderID})
	}
}

func ownerFromRequest(r *http.Request) (string, error) {
	owner := middleware.CartOwnerFromContext(r.Context())
	if owner == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session not resolved")
	}
	return owner, nil
}
