package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matheus3301/wppdash/internal/router"
	"go.uber.org/zap"
)

type fakeSession struct {
	token   string
	cleared int
}

func (s *fakeSession) Token() string { return s.token }

func (s *fakeSession) Clear() error {
	s.cleared++
	s.token = ""
	return nil
}

type fakeNav struct {
	routes []string
}

func (n *fakeNav) Replace(name string) error {
	n.routes = append(n.routes, name)
	return nil
}

func newTestGateway(t *testing.T, h http.HandlerFunc, token string) (*Gateway, *fakeSession, *fakeNav) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	sess := &fakeSession{token: token}
	nav := &fakeNav{}
	return New(Options{BaseURL: srv.URL + "/"}, sess, nav, zap.NewNop()), sess, nav
}

func TestGatewayAddsBearerToken(t *testing.T) {
	var got http.Header
	g, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}, "t1")

	if _, err := g.Get(context.Background(), "/data"); err != nil {
		t.Fatal(err)
	}
	if got.Get("Authorization") != "Bearer t1" {
		t.Errorf("Authorization = %q, want Bearer t1", got.Get("Authorization"))
	}
	if got.Get("Accept") != "application/json" || got.Get("Content-Type") != "application/json" {
		t.Errorf("default headers = %v", got)
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestGatewayWithoutTokenSendsNoAuthorization(t *testing.T) {
	var got http.Header
	g, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}, "")

	if _, err := g.Get(context.Background(), "/data"); err != nil {
		t.Fatal(err)
	}
	if v, ok := got["Authorization"]; ok {
		t.Errorf("Authorization = %v, want absent", v)
	}
}

func TestGatewaySendsBodyAndQuery(t *testing.T) {
	var method, query string
	var body map[string]string
	g, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		query = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9}`))
	}, "")

	resp, err := g.Post(context.Background(), "/contacts", map[string]string{"name": "Ana"},
		WithQuery(url.Values{"page": {"2"}}), WithHeader("X-Trace", "on"))
	if err != nil {
		t.Fatal(err)
	}
	if method != http.MethodPost || query != "page=2" || body["name"] != "Ana" {
		t.Errorf("server saw %s ?%s %v", method, query, body)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("Status = %d, want 201", resp.Status)
	}
	var out struct{ ID int64 }
	if err := resp.Decode(&out); err != nil || out.ID != 9 {
		t.Errorf("Decode() = %+v, %v", out, err)
	}
}

func TestGatewayMethods(t *testing.T) {
	var methods []string
	g, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
	}, "")
	ctx := context.Background()

	_, _ = g.Put(ctx, "/contacts/1", nil)
	_, _ = g.Patch(ctx, "/contacts/1", nil)
	_, _ = g.Remove(ctx, "/contacts/1")

	want := []string{http.MethodPut, http.MethodPatch, http.MethodDelete}
	for i, m := range want {
		if i >= len(methods) || methods[i] != m {
			t.Fatalf("methods = %v, want %v", methods, want)
		}
	}
}

func TestGatewayUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	g, sess, nav := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}, "expired")

	_, err := g.Get(context.Background(), "/contacts")
	if err == nil {
		t.Fatal("Get() error = nil, want 401 error")
	}
	if code, ok := StatusOf(err); !ok || code != http.StatusUnauthorized {
		t.Errorf("StatusOf() = %d, %v", code, ok)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message() != "Unauthenticated." {
		t.Errorf("error = %v", err)
	}
	if sess.cleared != 1 {
		t.Errorf("session cleared %d times, want 1", sess.cleared)
	}
	if len(nav.routes) != 1 || nav.routes[0] != router.RouteLogin {
		t.Errorf("redirects = %v, want [Login]", nav.routes)
	}
}

func TestGatewayOtherErrorsPassThrough(t *testing.T) {
	g, sess, nav := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, "t1")

	_, err := g.Get(context.Background(), "/contacts")
	if code, ok := StatusOf(err); !ok || code != http.StatusForbidden {
		t.Fatalf("StatusOf() = %d, %v; err = %v", code, ok, err)
	}
	if sess.cleared != 0 || len(nav.routes) != 0 {
		t.Errorf("403 triggered logout: cleared=%d redirects=%v", sess.cleared, nav.routes)
	}
}

func TestGatewayTransportErrorHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	g := New(Options{BaseURL: srv.URL}, &fakeSession{}, nil, zap.NewNop())

	_, err := g.Get(context.Background(), "/data")
	if err == nil {
		t.Fatal("Get() error = nil")
	}
	if _, ok := StatusOf(err); ok {
		t.Error("transport error carries a status")
	}
}

func TestGatewayUnauthorizedWithoutNavigator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	sess := &fakeSession{token: "t1"}
	g := New(Options{BaseURL: srv.URL}, sess, nil, zap.NewNop())

	if _, err := g.Get(context.Background(), "/data"); err == nil {
		t.Fatal("Get() error = nil")
	}
	if sess.cleared != 1 {
		t.Errorf("session cleared %d times, want 1", sess.cleared)
	}
}
