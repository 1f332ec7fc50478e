package model

import "encoding/json"

// Sidebar item types.
const (
	SidebarContact = "contact"
	SidebarGroup   = "group"
)

// SidebarItem is one heterogeneous sidebar entry. The sidebar mixes contacts
// and groups, so the item keeps every field verbatim and exposes accessors
// for the keys the client reads.
type SidebarItem map[string]json.RawMessage

// NewSidebarItem builds an item for local insertion without a round trip.
func NewSidebarItem(kind string, id int64, name string) SidebarItem {
	it := SidebarItem{}
	it.set("type", kind)
	it.set("id", id)
	it.set("name", name)
	return it
}

// ContactSidebarItem reshapes a legacy /side_bar_contacts element into a
// sidebar item tagged as a contact. last_message, last_message_at and
// unread_count are carried over only when the element has them; they are
// never defaulted. All other fields pass through.
func ContactSidebarItem(raw map[string]json.RawMessage) SidebarItem {
	it := make(SidebarItem, len(raw)+1)
	for k, v := range raw {
		it[k] = v
	}
	it.set("type", SidebarContact)
	return it
}

// Type returns the item's type tag, or "" when absent.
func (it SidebarItem) Type() string {
	var s string
	it.get("type", &s)
	return s
}

// ID returns the item's id, or 0 when absent.
func (it SidebarItem) ID() int64 {
	var id int64
	it.get("id", &id)
	return id
}

// Name returns the item's display name.
func (it SidebarItem) Name() string {
	var s string
	it.get("name", &s)
	return s
}

// LastMessage returns the preview of the last message, if present.
func (it SidebarItem) LastMessage() (string, bool) {
	var s string
	return s, it.get("last_message", &s)
}

// UnreadCount returns the unread counter, if present.
func (it SidebarItem) UnreadCount() (int, bool) {
	var n int
	return n, it.get("unread_count", &n)
}

// Has reports whether key is present on the item.
func (it SidebarItem) Has(key string) bool {
	_, ok := it[key]
	return ok
}

func (it SidebarItem) get(key string, v any) bool {
	raw, ok := it[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (it SidebarItem) set(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	it[key] = b
}
