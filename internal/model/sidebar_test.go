package model

import (
	"encoding/json"
	"testing"
)

func TestContactSidebarItemTagsAndPassesThrough(t *testing.T) {
	var raw map[string]json.RawMessage
	body := `{"id":3,"name":"Dee","phone":"+33","last_message":"hi","last_message_at":"2024-01-01","unread_count":2,"type":"legacy"}`
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatal(err)
	}

	it := ContactSidebarItem(raw)

	if it.Type() != SidebarContact {
		t.Errorf("Type() = %q, want contact", it.Type())
	}
	if it.ID() != 3 || it.Name() != "Dee" {
		t.Errorf("ID/Name = %d/%q", it.ID(), it.Name())
	}
	if msg, ok := it.LastMessage(); !ok || msg != "hi" {
		t.Errorf("LastMessage() = %q, %v", msg, ok)
	}
	if n, ok := it.UnreadCount(); !ok || n != 2 {
		t.Errorf("UnreadCount() = %d, %v", n, ok)
	}
	if !it.Has("phone") || !it.Has("last_message_at") {
		t.Error("passthrough fields missing")
	}
	if len(it) != len(raw) {
		t.Errorf("len = %d, want %d", len(it), len(raw))
	}
}

func TestContactSidebarItemLeavesMissingFieldsAbsent(t *testing.T) {
	it := ContactSidebarItem(map[string]json.RawMessage{"id": json.RawMessage(`9`)})

	for _, k := range []string{"last_message", "last_message_at", "unread_count"} {
		if it.Has(k) {
			t.Errorf("%s present, want absent", k)
		}
	}
	if _, ok := it.UnreadCount(); ok {
		t.Error("UnreadCount() ok = true for missing field")
	}
}

func TestNewSidebarItem(t *testing.T) {
	it := NewSidebarItem(SidebarGroup, 12, "Team")
	if it.Type() != SidebarGroup || it.ID() != 12 || it.Name() != "Team" {
		t.Errorf("item = %v", it)
	}
}
