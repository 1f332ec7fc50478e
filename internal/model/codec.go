package model

import "encoding/json"

// UnmarshalJSON decodes a user, keeping unknown fields in Extra.
func (u *User) UnmarshalJSON(b []byte) error {
	o := parseObject(b)
	*u = User{
		ID:    o.takeInt("id"),
		Name:  o.takeString("name"),
		Email: o.takeString("email"),
	}
	u.Extra = o.rest()
	return nil
}

// MarshalJSON encodes the user with its extra fields.
func (u User) MarshalJSON() ([]byte, error) {
	f := newFields(u.Extra)
	f.put("id", u.ID, u.ID == 0)
	f.put("name", u.Name, u.Name == "")
	f.opt("email", u.Email, u.Email == "")
	return json.Marshal(f)
}

// UnmarshalJSON decodes a contact, keeping unknown fields in Extra.
func (c *Contact) UnmarshalJSON(b []byte) error {
	o := parseObject(b)
	*c = Contact{
		ID:        o.takeInt("id"),
		Name:      o.takeString("name"),
		Phone:     o.takeString("phone"),
		Email:     o.takeString("email"),
		CreatedAt: o.takeString("created_at"),
		UpdatedAt: o.takeString("updated_at"),
	}
	c.Extra = o.rest()
	return nil
}

// MarshalJSON encodes the contact with its extra fields.
func (c Contact) MarshalJSON() ([]byte, error) {
	f := newFields(c.Extra)
	f.put("id", c.ID, c.ID == 0)
	f.put("name", c.Name, c.Name == "")
	f.opt("phone", c.Phone, c.Phone == "")
	f.opt("email", c.Email, c.Email == "")
	f.opt("created_at", c.CreatedAt, c.CreatedAt == "")
	f.opt("updated_at", c.UpdatedAt, c.UpdatedAt == "")
	return json.Marshal(f)
}

// UnmarshalJSON decodes a group and its members, keeping unknown fields in
// Extra. A members value that is not a list stays in Extra.
func (g *Group) UnmarshalJSON(b []byte) error {
	o := parseObject(b)
	*g = Group{
		ID:          o.takeInt("id"),
		Name:        o.takeString("name"),
		Description: o.takeString("description"),
		CreatedAt:   o.takeString("created_at"),
		UpdatedAt:   o.takeString("updated_at"),
	}
	o.take("members", &g.Members)
	g.Extra = o.rest()
	return nil
}

// MarshalJSON encodes the group with its extra fields.
func (g Group) MarshalJSON() ([]byte, error) {
	f := newFields(g.Extra)
	f.put("id", g.ID, g.ID == 0)
	f.put("name", g.Name, g.Name == "")
	f.opt("description", g.Description, g.Description == "")
	f.opt("members", g.Members, len(g.Members) == 0)
	f.opt("created_at", g.CreatedAt, g.CreatedAt == "")
	f.opt("updated_at", g.UpdatedAt, g.UpdatedAt == "")
	return json.Marshal(f)
}

// UnmarshalJSON decodes a message, keeping unknown fields in Extra.
func (m *Message) UnmarshalJSON(b []byte) error {
	o := parseObject(b)
	*m = Message{
		ID:        o.takeInt("id"),
		GroupID:   o.takeInt("group_id"),
		Text:      o.takeString("text"),
		Status:    o.takeString("status"),
		CreatedAt: o.takeString("created_at"),
	}
	m.Extra = o.rest()
	return nil
}

// MarshalJSON encodes the message with its extra fields.
func (m Message) MarshalJSON() ([]byte, error) {
	f := newFields(m.Extra)
	f.put("id", m.ID, m.ID == 0)
	f.opt("group_id", m.GroupID, m.GroupID == 0)
	f.put("text", m.Text, m.Text == "")
	f.opt("status", m.Status, m.Status == "")
	f.opt("created_at", m.CreatedAt, m.CreatedAt == "")
	return json.Marshal(f)
}
