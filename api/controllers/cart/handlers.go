package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowmart/storefront-cart/api/middleware"
	"github.com/glowmart/storefront-cart/api/responses"
	"github.com/glowmart/storefront-cart/api/validators"
	cartsvc "github.com/glowmart/storefront-cart/internal/cart"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

// Fetch returns the owner's full cart with derived totals.
func Fetch(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.Load(r.Context(), owner)))
	}
}

// AddItem folds a product into the cart, accumulating quantity when the
// product is already present.
func AddItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated := store.AddOrIncrement(r.Context(), owner, payload.ProductID, payload.Qty, payload.snapshot())
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(updated))
	}
}

// SetQuantity replaces the quantity of an existing line. Zero removes the
// line; an unknown product leaves the cart untouched.
func SetQuantity(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated := store.SetQuantity(r.Context(), owner, productID, payload.Qty)
		responses.WriteSuccess(w, newCartView(updated))
	}
}

// RemoveItem drops a line from the cart. Removing a product that is not in
// the cart succeeds and returns the unchanged cart.
func RemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}

		updated := store.RemoveLine(r.Context(), owner, productID)
		responses.WriteSuccess(w, newCartView(updated))
	}
}

// Clear empties the cart.
func Clear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(r.Context(), owner)
		responses.WriteSuccess(w, newCartView(cartsvc.Cart{}))
	}
}

// Summary returns the derived totals without the line list, sized for the
// cart badge in the storefront header.
func Summary(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSummaryView(store.Load(r.Context(), owner)))
	}
}

func ownerFromRequest(r *http.Request) (string, error) {
	owner := middleware.CartOwnerFromContext(r.Context())
	if owner == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session not resolved")
	}
	return owner, nil
}
