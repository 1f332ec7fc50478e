// Package state is the client's in-memory store: the root store owning the
// session, the aggregate data blob and the sidebar, plus the contacts and
// groups sub-stores. Every action calls the API and applies the response; a
// failed request leaves state as it was and returns the error unchanged.
package state

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matheus3301/wppdash/internal/api"
)

// Gateway is the subset of *api.Gateway the stores use.
type Gateway interface {
	Get(ctx context.Context, path string, opts ...api.RequestOption) (*api.Response, error)
	Post(ctx context.Context, path string, body any, opts ...api.RequestOption) (*api.Response, error)
	Put(ctx context.Context, path string, body any, opts ...api.RequestOption) (*api.Response, error)
	Remove(ctx context.Context, path string, opts ...api.RequestOption) (*api.Response, error)
}

// ListParams selects a list page. A zero Page and an empty Search are not sent.
type ListParams struct {
	Page   int
	Search string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

// LoadingChange is the payload of bus.StateLoading events.
type LoadingChange struct {
	Store   string
	Loading bool
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
