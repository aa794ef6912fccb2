package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/ardanlabs/ledger/foundation/web"
)

// The node only serves GET, POST and DELETE routes, and every request body
// is JSON. Browsers can cache the preflight answer for corsMaxAge seconds.
var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}, ", ")
	corsHeaders = strings.Join([]string{"Origin", "Accept", "Content-Type", "Content-Length", "Accept-Encoding"}, ", ")
)

const corsMaxAge = "600"

// Cors sets the response headers a browser needs to call the ledger API
// from the specified origin.
func Cors(origin string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)

			// Only a preflight needs to know how long it may be cached.
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
