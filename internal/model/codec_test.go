package model

import (
	"encoding/json"
	"testing"
)

func TestContactKeepsUnknownFields(t *testing.T) {
	body := `{"id":1,"name":"Ana","tags":["vip"],"whatsapp_id":"33@s"}`

	var c Contact
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatal(err)
	}
	if c.ID != 1 || c.Name != "Ana" {
		t.Errorf("Contact = %+v", c)
	}
	if string(c.Extra["whatsapp_id"]) != `"33@s"` {
		t.Errorf("Extra = %v", c.Extra)
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"id":1,"name":"Ana","tags":["vip"],"whatsapp_id":"33@s"}`; string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestEntityLenientFields(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"id":"5","group_id":"2","text":42,"status":null}`), &m); err != nil {
		t.Fatal(err)
	}
	if m.ID != 5 || m.GroupID != 2 || m.Text != "42" || m.Status != "" {
		t.Errorf("Message = %+v", m)
	}
	if len(m.Extra) != 0 {
		t.Errorf("Extra = %v, want empty", m.Extra)
	}
}

func TestMismatchedKnownFieldIsKept(t *testing.T) {
	var c Contact
	if err := json.Unmarshal([]byte(`{"id":{"oid":"x"},"name":"Ana"}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.ID != 0 {
		t.Errorf("ID = %d, want 0", c.ID)
	}
	out, _ := json.Marshal(c)
	if want := `{"id":{"oid":"x"},"name":"Ana"}`; string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestGroupMembersDecode(t *testing.T) {
	var g Group
	body := `{"id":3,"name":"G","members":[{"id":1,"name":"Ana","role":"admin"}],"owner":9}`
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		t.Fatal(err)
	}
	if len(g.Members) != 1 || string(g.Members[0].Extra["role"]) != `"admin"` {
		t.Errorf("Members = %+v", g.Members)
	}
	if string(g.Extra["owner"]) != "9" {
		t.Errorf("Extra = %v", g.Extra)
	}
}

func TestUserRoundTripWithExtra(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"name":"A","role":"admin"}`), &u); err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(&u)
	if want := `{"id":1,"name":"A","role":"admin"}`; string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}
