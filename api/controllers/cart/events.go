package cart

import (
	"fmt"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/glowmart/storefront-cart/api/responses"
	cartsvc "github.com/glowmart/storefront-cart/internal/cart"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

const heartbeatInterval = 25 * time.Second

// Events streams cart change notifications to the storefront over
// server-sent events. Each event carries the fresh summary so the client
// can repaint the cart badge without a follow-up request. The stream opens
// with the current state, so a client that reconnects after missing a
// change still converges.
func Events(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		// Change signals are coalesced: the stream only ever needs to know
		// that something changed since it last looked.
		changed := make(chan struct{}, 1)
		unsubscribe := store.Subscribe(owner, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		writeEvent(w, store, owner, r)
		flusher.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-changed:
				writeEvent(w, store, owner, r)
				flusher.Flush()
			case <-heartbeat.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, store *cartsvc.Store, owner string, r *http.Request) {
	payload, err := gojson.Marshal(newSummaryView(store.Load(r.Context(), owner)))
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: cartUpdated\ndata: %s\n\n", payload)
}
