package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matheus3301/wppdash/internal/model"
)

func decode(raw []byte, v any) error {
	if len(raw) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(raw, v)
}

func (s *Server) routes() {
	r := s.engine
	r.POST("/login", s.login)
	r.GET("/data", s.data)
	r.GET("/sidebar", s.sidebar)
	r.GET("/side_bar_contacts", s.legacySidebar)

	r.GET("/contacts", s.listContacts)
	r.POST("/contacts", s.createContact)
	r.PUT("/contacts/:id", s.updateContact)
	r.DELETE("/contacts/:id", s.deleteContact)

	r.GET("/groups", s.listGroups)
	r.POST("/groups", s.createGroup)
	r.GET("/groups/:id", s.showGroup)
	r.PUT("/groups/:id", s.updateGroup)
	r.DELETE("/groups/:id", s.deleteGroup)
	r.POST("/groups/:id/contacts", s.addMembers)
	r.DELETE("/groups/:id/contacts/:contactId", s.removeMember)
	r.GET("/groups/:id/messages", s.listMessages)
	r.POST("/groups/:id/send", s.send)
}

func (s *Server) login(c *gin.Context) {
	var creds model.Credentials
	if !bind(c, &creds) {
		return
	}
	if creds.Email != Email || creds.Password != Password {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, model.LoginResult{User: &s.User, Token: Token})
}

func (s *Server) data(c *gin.Context) {
	c.JSON(http.StatusOK, s.Data)
}

func (s *Server) sidebar(c *gin.Context) {
	c.JSON(http.StatusOK, s.Sidebar)
}

func (s *Server) legacySidebar(c *gin.Context) {
	c.JSON(http.StatusOK, s.Legacy)
}

func (s *Server) listContacts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	search := c.Query("search")

	s.mu.Lock()
	var found []model.Contact
	for _, ct := range s.contacts {
		if matches(ct.Name, search) {
			found = append(found, ct)
		}
	}
	s.mu.Unlock()

	total := len(found)
	last := max(1, (total+perPage-1)/perPage)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	items := found[start:end]
	if items == nil {
		items = []model.Contact{}
	}
	s.list(c, items, page, last, total)
}

func (s *Server) createContact(c *gin.Context) {
	var in model.ContactInput
	if !bind(c, &in) {
		return
	}
	s.mu.Lock()
	ct := model.Contact{ID: s.id(), Name: in.Name, Phone: in.Phone, Email: in.Email}
	s.contacts = append(s.contacts, ct)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, ct)
}

func (s *Server) updateContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in model.ContactInput
	if !bind(c, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.contacts, func(ct model.Contact) bool { return ct.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	s.contacts[i] = model.Contact{ID: id, Name: in.Name, Phone: in.Phone, Email: in.Email}
	c.JSON(http.StatusOK, s.contacts[i])
}

func (s *Server) deleteContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	s.contacts = slices.DeleteFunc(s.contacts, func(ct model.Contact) bool { return ct.ID == id })
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) listGroups(c *gin.Context) {
	search := c.Query("search")
	s.mu.Lock()
	var found []model.Group
	for _, g := range s.groups {
		if matches(g.Name, search) {
			found = append(found, g)
		}
	}
	s.mu.Unlock()
	if found == nil {
		found = []model.Group{}
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) findGroup(c *gin.Context) (int, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	i := slices.IndexFunc(s.groups, func(g model.Group) bool { return g.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return 0, false
	}
	return i, true
}

func (s *Server) showGroup(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findGroup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.groups[i])
}

func (s *Server) createGroup(c *gin.Context) {
	var in model.GroupInput
	if !bind(c, &in) {
		return
	}
	s.mu.Lock()
	g := model.Group{ID: s.id(), Name: in.Name, Description: in.Description}
	s.groups = append(s.groups, g)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, g)
}

func (s *Server) updateGroup(c *gin.Context) {
	var in model.GroupInput
	if !bind(c, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findGroup(c)
	if !ok {
		return
	}
	s.groups[i].Name = in.Name
	s.groups[i].Description = in.Description
	c.JSON(http.StatusOK, s.groups[i])
}

func (s *Server) deleteGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	s.groups = slices.DeleteFunc(s.groups, func(g model.Group) bool { return g.ID == id })
	delete(s.messages, id)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) addMembers(c *gin.Context) {
	var in model.MembersInput
	if !bind(c, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findGroup(c)
	if !ok {
		return
	}
	for _, cid := range in.ContactIDs {
		if slices.ContainsFunc(s.groups[i].Members, func(m model.Contact) bool { return m.ID == cid }) {
			continue
		}
		if j := slices.IndexFunc(s.contacts, func(ct model.Contact) bool { return ct.ID == cid }); j >= 0 {
			s.groups[i].Members = append(s.groups[i].Members, s.contacts[j])
		}
	}
	c.JSON(http.StatusOK, s.groups[i])
}

func (s *Server) removeMember(c *gin.Context) {
	cid, ok := paramID(c, "contactId")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findGroup(c)
	if !ok {
		return
	}
	s.groups[i].Members = slices.DeleteFunc(s.groups[i].Members, func(m model.Contact) bool { return m.ID == cid })
	c.JSON(http.StatusOK, s.groups[i])
}

func (s *Server) listMessages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	msgs := slices.Clone(s.messages[id])
	s.mu.Unlock()
	if msgs == nil {
		msgs = []model.Message{}
	}
	s.list(c, msgs, 1, 1, len(msgs))
}

func (s *Server) send(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in model.MessageInput
	if !bind(c, &in) {
		return
	}
	if in.Text == "" {
		c.JSON(http.StatusOK, model.SendResult{Success: false, Error: "empty message"})
		return
	}
	s.mu.Lock()
	msg := model.Message{ID: s.id(), GroupID: id, Text: in.Text, Status: "sent"}
	s.messages[id] = append(s.messages[id], msg)
	s.mu.Unlock()
	c.JSON(http.StatusOK, model.SendResult{Success: true, Message: &msg})
}
