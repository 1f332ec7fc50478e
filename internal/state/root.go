package state

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/matheus3301/wppdash/internal/bus"
	"github.com/matheus3301/wppdash/internal/model"
	"github.com/matheus3301/wppdash/internal/session"
	"go.uber.org/zap"
)

// Root is the top-level store. It owns the session transitions, the
// aggregate data blob and the sidebar, and composes the sub-stores.
type Root struct {
	gw      Gateway
	session *session.Session
	bus     *bus.Bus
	logger  *zap.Logger

	Contacts *Contacts
	Groups   *Groups

	mu      sync.RWMutex
	data    json.RawMessage
	sidebar []model.SidebarItem
}

// NewRoot creates the root store and its sub-stores.
func NewRoot(gw Gateway, sess *session.Session, b *bus.Bus, logger *zap.Logger) *Root {
	return &Root{
		gw:       gw,
		session:  sess,
		bus:      b,
		logger:   logger,
		Contacts: NewContacts(gw, b, logger),
		Groups:   NewGroups(gw, b, logger),
		data:     model.EmptyData,
		sidebar:  []model.SidebarItem{},
	}
}

// IsAuthenticated reports whether a session token is present.
func (r *Root) IsAuthenticated() bool {
	return r.session.IsAuthenticated()
}

// CurrentUser returns the logged-in user, or nil.
func (r *Root) CurrentUser() *model.User {
	return r.session.User()
}

// UserName returns the logged-in user's display name.
func (r *Root) UserName() string {
	return r.session.UserName()
}

// Login authenticates with the API and records the returned user and token.
// On failure the session is unchanged and the error is returned as is.
func (r *Root) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	resp, err := r.gw.Post(ctx, "/login", creds)
	if err != nil {
		return nil, err
	}
	var res model.LoginResult
	if err := resp.Decode(&res); err != nil {
		return nil, err
	}
	if err := r.session.Authenticate(res.User, res.Token); err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("email", creds.Email)}
	if res.User != nil {
		fields = append(fields, zap.Int64("user_id", res.User.ID))
	}
	r.logger.Info("logged in", fields...)
	return &res, nil
}

// Logout drops the session locally. The server is not notified.
func (r *Root) Logout() error {
	r.logger.Info("logged out")
	return r.session.Clear()
}

// Data returns the aggregate data blob.
func (r *Root) Data() json.RawMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.data)
}

// GetData fetches the aggregate data blob and replaces the previous one.
func (r *Root) GetData(ctx context.Context) (json.RawMessage, error) {
	resp, err := r.gw.Get(ctx, "/data")
	if err != nil {
		return nil, err
	}
	data := json.RawMessage(slices.Clone(resp.Data))
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	r.mu.Lock()
	r.data = data
	r.mu.Unlock()

	r.bus.Emit(bus.StateDataSet, nil)
	return slices.Clone(data), nil
}

// Sidebar returns the sidebar items in display order.
func (r *Root) Sidebar() []model.SidebarItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sidebar)
}

// FetchSidebar loads the sidebar from /sidebar. When that fails it falls back
// to the legacy /side_bar_contacts list, reshaping each contact into a
// sidebar item. If the fallback fails too its error is returned.
func (r *Root) FetchSidebar(ctx context.Context) ([]model.SidebarItem, error) {
	items, err := r.fetchSidebar(ctx)
	if err != nil {
		r.logger.Warn("sidebar unavailable, using legacy contacts", zap.Error(err))
		items, err = r.fetchLegacySidebar(ctx)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.sidebar = items
	r.mu.Unlock()

	r.bus.Emit(bus.StateSidebarSet, len(items))
	return slices.Clone(items), nil
}

func (r *Root) fetchSidebar(ctx context.Context) ([]model.SidebarItem, error) {
	resp, err := r.gw.Get(ctx, "/sidebar")
	if err != nil {
		return nil, err
	}
	var items []model.SidebarItem
	if err := resp.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.SidebarItem{}
	}
	return items, nil
}

func (r *Root) fetchLegacySidebar(ctx context.Context) ([]model.SidebarItem, error) {
	resp, err := r.gw.Get(ctx, "/side_bar_contacts")
	if err != nil {
		return nil, err
	}
	var contacts []map[string]json.RawMessage
	if err := resp.Decode(&contacts); err != nil {
		return nil, err
	}
	items := make([]model.SidebarItem, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, model.ContactSidebarItem(c))
	}
	return items, nil
}

// UnshiftSidebar inserts an item at the top of the sidebar without a round trip.
func (r *Root) UnshiftSidebar(item model.SidebarItem) {
	r.mu.Lock()
	r.sidebar = slices.Insert(r.sidebar, 0, item)
	r.mu.Unlock()

	r.bus.Emit(bus.StateSidebarAdded, item)
}
