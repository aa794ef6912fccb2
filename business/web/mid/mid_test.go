package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T) *web.App {
	log := zap.NewNop().Sugar()
	shutdown := make(chan os.Signal, 1)

	app := web.NewApp(shutdown, mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())

	app.Handle(http.MethodGet, "v1", "/conflict", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		err := database.NewValidationError(database.ErrLinkMismatch, "0x01", "previous link doesn't match")
		return errs.NewLedger(err)
	})
	app.Handle(http.MethodGet, "v1", "/fields", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return validate.FieldErrors{{Field: "amount", Error: "amount must be greater than 0"}}
	})
	app.Handle(http.MethodGet, "v1", "/boom", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("internal detail")
	})
	app.Handle(http.MethodGet, "v1", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("bad things")
	})
	app.Handle(http.MethodGet, "v1", "/cors", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}, mid.Cors("*"))
	app.Handle(http.MethodOptions, "v1", "/cors", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusOK)
	}, mid.Cors("https://wallet.example.com"))

	return app
}

func call(t *testing.T, app *web.App, path string) (*httptest.ResponseRecorder, errs.Response) {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	var resp errs.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	}
	return w, resp
}

func TestErrors(t *testing.T) {
	app := newApp(t)

	w, resp := call(t, app, "/v1/conflict")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "link_mismatch", resp.Reason)

	w, resp = call(t, app, "/v1/fields")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "amount must be greater than 0", resp.Fields["amount"])

	w, resp = call(t, app, "/v1/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, http.StatusText(http.StatusInternalServerError), resp.Error)

	w, _ = call(t, app, "/v1/panic")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCors(t *testing.T) {
	app := newApp(t)

	w, _ := call(t, app, "/v1/cors")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Origin, Accept, Content-Type, Content-Length, Accept-Encoding", w.Header().Get("Access-Control-Allow-Headers"))
	require.Empty(t, w.Header().Get("Access-Control-Max-Age"))

	r := httptest.NewRequest(http.MethodOptions, "/v1/cors", nil)
	w = httptest.NewRecorder()
	app.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://wallet.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	require.NotContains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	require.NotContains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
