package state

import (
	"context"
	"sync"

	"github.com/matheus3301/wppdash/internal/api"
	"github.com/matheus3301/wppdash/internal/bus"
	"github.com/matheus3301/wppdash/internal/model"
	"go.uber.org/zap"
)

// Contacts is the contacts sub-store.
type Contacts struct {
	gw     Gateway
	bus    *bus.Bus
	logger *zap.Logger

	mu         sync.RWMutex
	contacts   collection[model.Contact]
	pagination model.Pagination
	loading    bool
}

// NewContacts creates an empty contacts store.
func NewContacts(gw Gateway, b *bus.Bus, logger *zap.Logger) *Contacts {
	return &Contacts{
		gw:         gw,
		bus:        b,
		logger:     logger.Named("contacts"),
		contacts:   newCollection(model.ContactID),
		pagination: model.DefaultPagination,
	}
}

// All returns the loaded contacts in display order.
func (s *Contacts) All() []model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts.snapshot()
}

// ByID returns the loaded contact with the given id.
func (s *Contacts) ByID(id int64) (model.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts.find(id)
}

// Pagination returns the pagination of the last list fetch.
func (s *Contacts) Pagination() model.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// Loading reports whether a list fetch is in flight. Overlapping fetches
// share the flag, so it drops as soon as the first one finishes.
func (s *Contacts) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Contacts) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.bus.Emit(bus.StateLoading, LoadingChange{Store: "contacts", Loading: v})
}

// FetchList loads one page of contacts, replacing the list and pagination.
// The page defaults to 1.
func (s *Contacts) FetchList(ctx context.Context, p ListParams) (*model.Page[model.Contact], error) {
	if p.Page < 1 {
		p.Page = 1
	}
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.gw.Get(ctx, "/contacts", api.WithQuery(p.query()))
	if err != nil {
		return nil, err
	}
	page := model.Page[model.Contact]{Items: []model.Contact{}, Pagination: model.DefaultPagination}
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.contacts.set(page.Items)
	s.pagination = page.Pagination
	s.mu.Unlock()

	s.logger.Debug("contacts loaded", zap.Int("count", len(page.Items)), zap.Int("page", page.Pagination.CurrentPage))
	s.bus.Emit(bus.StateContactsSet, page.Pagination)
	return &page, nil
}

// Create posts a new contact and puts the server's copy first in the list.
func (s *Contacts) Create(ctx context.Context, in model.ContactInput) (model.Contact, error) {
	resp, err := s.gw.Post(ctx, "/contacts", in)
	if err != nil {
		return model.Contact{}, err
	}
	var c model.Contact
	if err := resp.Decode(&c); err != nil {
		return model.Contact{}, err
	}

	s.mu.Lock()
	s.contacts.prepend(c)
	s.mu.Unlock()

	s.bus.Emit(bus.StateContactAdded, c)
	return c, nil
}

// Update saves a contact and replaces the local entry in place. A contact
// that is not loaded locally is left alone.
func (s *Contacts) Update(ctx context.Context, id int64, in model.ContactInput) (model.Contact, error) {
	resp, err := s.gw.Put(ctx, idPath("/contacts", id), in)
	if err != nil {
		return model.Contact{}, err
	}
	var c model.Contact
	if err := resp.Decode(&c); err != nil {
		return model.Contact{}, err
	}

	s.mu.Lock()
	replaced := s.contacts.replace(c)
	s.mu.Unlock()

	if replaced {
		s.bus.Emit(bus.StateContactUpdate, c)
	}
	return c, nil
}

// Delete removes a contact on the server, then locally.
func (s *Contacts) Delete(ctx context.Context, id int64) error {
	if _, err := s.gw.Remove(ctx, idPath("/contacts", id)); err != nil {
		return err
	}

	s.mu.Lock()
	s.contacts.remove(id)
	s.mu.Unlock()

	s.bus.Emit(bus.StateContactRemove, id)
	return nil
}
