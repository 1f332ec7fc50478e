package state

import (
	"context"
	"slices"
	"sync"

	"github.com/matheus3301/wppdash/internal/api"
	"github.com/matheus3301/wppdash/internal/bus"
	"github.com/matheus3301/wppdash/internal/model"
	"go.uber.org/zap"
)

// Groups is the groups sub-store. Besides the list it tracks the group open
// in the detail view and that group's messages.
type Groups struct {
	gw     Gateway
	bus    *bus.Bus
	logger *zap.Logger

	mu              sync.RWMutex
	groups          collection[model.Group]
	pagination      model.Pagination
	current         *model.Group
	messages        []model.Message
	loading         bool
	messagesLoading bool
}

// NewGroups creates an empty groups store.
func NewGroups(gw Gateway, b *bus.Bus, logger *zap.Logger) *Groups {
	return &Groups{
		gw:         gw,
		bus:        b,
		logger:     logger.Named("groups"),
		groups:     newCollection(model.GroupID),
		pagination: model.DefaultPagination,
		messages:   []model.Message{},
	}
}

// All returns the loaded groups in display order.
func (s *Groups) All() []model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups.snapshot()
}

// ByID returns the loaded group with the given id.
func (s *Groups) ByID(id int64) (model.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups.find(id)
}

// Pagination returns the pagination of the last list fetch.
func (s *Groups) Pagination() model.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// Current returns the group open in the detail view, or nil.
func (s *Groups) Current() *model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	g := *s.current
	g.Members = slices.Clone(g.Members)
	return &g
}

// Messages returns the current group's messages, oldest first.
func (s *Groups) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

// Loading reports whether a list or detail fetch is in flight.
func (s *Groups) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// MessagesLoading reports whether a message fetch is in flight.
func (s *Groups) MessagesLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messagesLoading
}

func (s *Groups) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.bus.Emit(bus.StateLoading, LoadingChange{Store: "groups", Loading: v})
}

func (s *Groups) setMessagesLoading(v bool) {
	s.mu.Lock()
	s.messagesLoading = v
	s.mu.Unlock()
	s.bus.Emit(bus.StateLoading, LoadingChange{Store: "groups.messages", Loading: v})
}

func (s *Groups) setCurrent(g model.Group) {
	s.mu.Lock()
	s.current = &g
	s.mu.Unlock()
	s.bus.Emit(bus.StateGroupCurrent, g)
}

// FetchList loads the groups list. The API may answer with an envelope or a
// bare list.
func (s *Groups) FetchList(ctx context.Context, p ListParams) (*model.Page[model.Group], error) {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.gw.Get(ctx, "/groups", api.WithQuery(p.query()))
	if err != nil {
		return nil, err
	}
	page := model.Page[model.Group]{Items: []model.Group{}, Pagination: model.DefaultPagination}
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.groups.set(page.Items)
	s.pagination = page.Pagination
	s.mu.Unlock()

	s.logger.Debug("groups loaded", zap.Int("count", len(page.Items)))
	s.bus.Emit(bus.StateGroupsSet, page.Pagination)
	return &page, nil
}

// FetchOne loads a group with its members and makes it the current group.
func (s *Groups) FetchOne(ctx context.Context, id int64) (*model.Group, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.gw.Get(ctx, idPath("/groups", id))
	if err != nil {
		return nil, err
	}
	var g model.Group
	if err := resp.Decode(&g); err != nil {
		return nil, err
	}
	s.setCurrent(g)
	return &g, nil
}

// Create posts a new group and puts the server's copy first in the list.
func (s *Groups) Create(ctx context.Context, in model.GroupInput) (model.Group, error) {
	resp, err := s.gw.Post(ctx, "/groups", in)
	if err != nil {
		return model.Group{}, err
	}
	var g model.Group
	if err := resp.Decode(&g); err != nil {
		return model.Group{}, err
	}

	s.mu.Lock()
	s.groups.prepend(g)
	s.mu.Unlock()

	s.bus.Emit(bus.StateGroupAdded, g)
	return g, nil
}

// Update saves a group, replaces the local entry in place and refreshes the
// current group when it is the one updated.
func (s *Groups) Update(ctx context.Context, id int64, in model.GroupInput) (model.Group, error) {
	resp, err := s.gw.Put(ctx, idPath("/groups", id), in)
	if err != nil {
		return model.Group{}, err
	}
	var g model.Group
	if err := resp.Decode(&g); err != nil {
		return model.Group{}, err
	}

	s.mu.Lock()
	s.groups.replace(g)
	if s.current != nil && s.current.ID == g.ID {
		cur := g
		s.current = &cur
	}
	s.mu.Unlock()

	s.bus.Emit(bus.StateGroupUpdate, g)
	return g, nil
}

// Delete removes a group on the server, then locally. Deleting the current
// group closes it.
func (s *Groups) Delete(ctx context.Context, id int64) error {
	if _, err := s.gw.Remove(ctx, idPath("/groups", id)); err != nil {
		return err
	}

	s.mu.Lock()
	s.groups.remove(id)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	s.bus.Emit(bus.StateGroupRemove, id)
	return nil
}

// AddMembers adds contacts to a group. The server's copy of the group
// becomes the current group.
func (s *Groups) AddMembers(ctx context.Context, groupID int64, contactIDs []int64) (*model.Group, error) {
	resp, err := s.gw.Post(ctx, idPath("/groups", groupID)+"/contacts", model.MembersInput{ContactIDs: contactIDs})
	if err != nil {
		return nil, err
	}
	var g model.Group
	if err := resp.Decode(&g); err != nil {
		return nil, err
	}
	s.setCurrent(g)
	return &g, nil
}

// RemoveMember removes one contact from a group. The server's copy of the
// group becomes the current group.
func (s *Groups) RemoveMember(ctx context.Context, groupID, contactID int64) (*model.Group, error) {
	resp, err := s.gw.Remove(ctx, idPath(idPath("/groups", groupID)+"/contacts", contactID))
	if err != nil {
		return nil, err
	}
	var g model.Group
	if err := resp.Decode(&g); err != nil {
		return nil, err
	}
	s.setCurrent(g)
	return &g, nil
}

// FetchMessages replaces the message list with the group's messages.
func (s *Groups) FetchMessages(ctx context.Context, groupID int64) ([]model.Message, error) {
	s.setMessagesLoading(true)
	defer s.setMessagesLoading(false)

	resp, err := s.gw.Get(ctx, idPath("/groups", groupID)+"/messages")
	if err != nil {
		return nil, err
	}
	page := model.Page[model.Message]{Items: []model.Message{}}
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.messages = page.Items
	s.mu.Unlock()

	s.bus.Emit(bus.StateMessagesSet, groupID)
	return slices.Clone(page.Items), nil
}

// SendMessage sends a message to a group. The message is appended locally
// only when the server reports success and returns it; otherwise the result
// is returned and state is unchanged.
func (s *Groups) SendMessage(ctx context.Context, groupID int64, in model.MessageInput) (*model.SendResult, error) {
	resp, err := s.gw.Post(ctx, idPath("/groups", groupID)+"/send", in)
	if err != nil {
		return nil, err
	}
	var res model.SendResult
	if err := resp.Decode(&res); err != nil {
		return nil, err
	}
	if !res.Success || res.Message == nil {
		s.logger.Info("message not accepted", zap.Int64("group_id", groupID), zap.String("error", res.Error))
		return &res, nil
	}

	s.mu.Lock()
	s.messages = append(s.messages, *res.Message)
	s.mu.Unlock()

	s.bus.Emit(bus.StateMessageAdded, *res.Message)
	return &res, nil
}
