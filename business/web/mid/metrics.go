package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/metrics"
	"github.com/ardanlabs/ledger/foundation/web"
)

// Metrics records the request count and latency per route.
func Metrics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			v, verr := web.GetValues(ctx)
			if verr != nil {
				return err
			}

			status := v.StatusCode
			switch {
			case status != 0:
			case err != nil:
				status = http.StatusInternalServerError
			default:
				status = http.StatusOK
			}
			metrics.Request(r.Method, v.Route, status, time.Since(v.Now))

			return err
		}

		return h
	}

	return m
}
