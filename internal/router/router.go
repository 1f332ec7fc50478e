package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/matheus3301/wppdash/internal/bus"
	"go.uber.org/zap"
)

// maxRedirects bounds guard and record redirects for one navigation.
const maxRedirects = 8

// ErrRedirectLoop is returned when a navigation keeps redirecting.
var ErrRedirectLoop = errors.New("router: too many redirects")

// Auth reports the authentication state the guard checks.
type Auth interface {
	IsAuthenticated() bool
}

// Location is a resolved navigation target.
type Location struct {
	Name    string
	Path    string
	Params  map[string]string
	Query   url.Values
	Matched []Record
}

// Router resolves paths against Table with gorilla/mux and runs Guard before
// every navigation. It is safe for concurrent use.
type Router struct {
	mux    *mux.Router
	chains map[*mux.Route][]Record
	auth   Auth
	bus    *bus.Bus
	logger *zap.Logger

	mu      sync.RWMutex
	current Location
}

// New builds a router over the given table.
func New(table []Record, auth Auth, b *bus.Bus, logger *zap.Logger) *Router {
	r := &Router{
		mux:    mux.NewRouter(),
		chains: make(map[*mux.Route][]Record),
		auth:   auth,
		bus:    b,
		logger: logger,
	}
	for _, rec := range table {
		r.register("", nil, rec)
	}
	return r
}

func (r *Router) register(prefix string, parents []Record, rec Record) {
	full := joinPath(prefix, rec.Path)
	chain := append(append([]Record(nil), parents...), rec)
	if len(rec.Children) > 0 {
		for _, child := range rec.Children {
			r.register(full, chain, child)
		}
		return
	}
	route := r.mux.Path(full)
	if rec.Name != "" {
		route = route.Name(rec.Name)
	}
	r.chains[route] = chain
}

func joinPath(prefix, p string) string {
	switch {
	case prefix == "":
		return p
	case p == "":
		return prefix
	default:
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(p, "/")
	}
}

// Resolve matches a path to a location without running the guard. Record
// redirects are followed.
func (r *Router) Resolve(path string) (Location, error) {
	for i := 0; i < maxRedirects; i++ {
		loc, redirect, err := r.match(path)
		if err != nil {
			return Location{}, err
		}
		if redirect == "" {
			return loc, nil
		}
		path = redirect
	}
	return Location{}, ErrRedirectLoop
}

func (r *Router) match(path string) (Location, string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Location{}, "", fmt.Errorf("parse path %q: %w", path, err)
	}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	req := &http.Request{Method: http.MethodGet, URL: u}

	var m mux.RouteMatch
	if !r.mux.Match(req, &m) {
		return Location{}, "", fmt.Errorf("no route for %q", path)
	}
	chain := r.chains[m.Route]
	leaf := chain[len(chain)-1]
	if leaf.Redirect != "" {
		return Location{}, leaf.Redirect, nil
	}
	return Location{
		Name:    leaf.Name,
		Path:    u.Path,
		Params:  m.Vars,
		Query:   u.Query(),
		Matched: chain,
	}, "", nil
}

// Push navigates to path. The guard may send the navigation to another route.
func (r *Router) Push(path string) (Location, error) {
	for i := 0; i < maxRedirects; i++ {
		loc, err := r.Resolve(path)
		if err != nil {
			return Location{}, err
		}
		d := Guard(loc.Matched, r.auth.IsAuthenticated())
		if d.Allow {
			r.commit(loc)
			return loc, nil
		}
		r.logger.Debug("navigation redirected", zap.String("from", loc.Name), zap.String("to", d.Redirect))
		path, err = r.URL(d.Redirect, nil)
		if err != nil {
			return Location{}, err
		}
	}
	return Location{}, ErrRedirectLoop
}

// Replace navigates to the named route.
func (r *Router) Replace(name string) error {
	path, err := r.URL(name, nil)
	if err != nil {
		return err
	}
	_, err = r.Push(path)
	return err
}

// URL builds the path of a named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	route := r.mux.Get(name)
	if route == nil {
		return "", fmt.Errorf("unknown route %q", name)
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, k, v)
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("build %s url: %w", name, err)
	}
	return u.Path, nil
}

// GroupDetailURL returns the path of a group's detail view.
func (r *Router) GroupDetailURL(id int64) (string, error) {
	return r.URL(RouteGroupDetail, map[string]string{"id": strconv.FormatInt(id, 10)})
}

// Current returns the last committed location.
func (r *Router) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Router) commit(loc Location) {
	r.mu.Lock()
	r.current = loc
	r.mu.Unlock()
	r.bus.Emit(bus.RouterNavigated, loc)
}
