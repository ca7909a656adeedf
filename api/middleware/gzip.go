package middleware

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// Gzip compresses JSON responses for clients that accept it. Compression is
// limited by content type so the event stream is written plain: gziphandler
// buffers writes until it has enough bytes to decide, which would hold back
// every flushed frame on a stream that trickles small events.
func Gzip() func(http.Handler) http.Handler {
	wrapper, err := gziphandler.GzipHandlerWithOpts(
		gziphandler.ContentTypes([]string{"application/json"}),
	)
	if err != nil {
		panic(err)
	}
	return wrapper
}
