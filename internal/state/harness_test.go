package state

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/matheus3301/wppdash/internal/api"
	"github.com/matheus3301/wppdash/internal/bus"
	"github.com/matheus3301/wppdash/internal/router"
	"github.com/matheus3301/wppdash/internal/session"
	"github.com/matheus3301/wppdash/internal/storage"
	"github.com/matheus3301/wppdash/internal/testutil/fakeapi"
	"go.uber.org/zap"
)

// harness wires the real gateway, session, storage and router against the
// fake backend.
type harness struct {
	api    *fakeapi.Server
	db     *storage.DB
	bus    *bus.Bus
	sess   *session.Session
	router *router.Router
	root   *Root
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()

	srv := fakeapi.New()
	baseURL := srv.Start()
	t.Cleanup(srv.Close)

	db, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if token != "" {
		if err := db.Set(session.TokenKey, token); err != nil {
			t.Fatal(err)
		}
		if err := db.Set(session.UserKey, `{"id":1,"name":"A"}`); err != nil {
			t.Fatal(err)
		}
	}

	logger := zap.NewNop()
	b := bus.New()
	sess, err := session.Load(db, b, logger)
	if err != nil {
		t.Fatal(err)
	}
	r := router.New(router.Table, sess, b, logger)
	gw := api.New(api.Options{BaseURL: baseURL}, sess, r, logger)

	return &harness{
		api:    srv,
		db:     db,
		bus:    b,
		sess:   sess,
		router: r,
		root:   NewRoot(gw, sess, b, logger),
	}
}

func (h *harness) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := h.db.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	return v, ok
}

// stubGateway answers every request with fn.
type stubGateway struct {
	fn    func(method, path string, body any) (*api.Response, error)
	calls []string
}

func (g *stubGateway) do(method, path string, body any) (*api.Response, error) {
	g.calls = append(g.calls, method+" "+path)
	return g.fn(method, path, body)
}

func (g *stubGateway) Get(_ context.Context, path string, _ ...api.RequestOption) (*api.Response, error) {
	return g.do("GET", path, nil)
}

func (g *stubGateway) Post(_ context.Context, path string, body any, _ ...api.RequestOption) (*api.Response, error) {
	return g.do("POST", path, body)
}

func (g *stubGateway) Put(_ context.Context, path string, body any, _ ...api.RequestOption) (*api.Response, error) {
	return g.do("PUT", path, body)
}

func (g *stubGateway) Remove(_ context.Context, path string, _ ...api.RequestOption) (*api.Response, error) {
	return g.do("DELETE", path, nil)
}

func jsonResponse(t *testing.T, v any) *api.Response {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return &api.Response{Status: 200, Data: data}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
