package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/stretchr/testify/require"
)

func TestApp(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	app.Handle(http.MethodGet, "v1", "/echo/:name", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		resp := struct {
			Name  string `json:"name"`
			Route string `json:"route"`
		}{
			Name:  web.Param(r, "name"),
			Route: v.Route,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodGet, "v1", "/integrity", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/echo/bill", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"name":"bill","route":"/v1/echo/:name"}`, w.Body.String())
	require.Equal(t, []string{"app", "route"}, order)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/integrity", nil))

	select {
	case <-shutdown:
	case <-time.After(time.Second):
		t.Fatal("Should signal a shutdown")
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		Amount int64 `json:"amount"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":10}`))
	require.NoError(t, web.Decode(r, &v))
	require.Equal(t, int64(10), v.Amount)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":10,"fee":1}`))
	require.Error(t, web.Decode(r, &v))
}

func TestValuesMissing(t *testing.T) {
	_, err := web.GetValues(context.Background())
	require.Error(t, err)
	require.Equal(t, "00000000-0000-0000-0000-000000000000", web.GetTraceID(context.Background()))
}
