// Package fakeapi is an in-memory dashboard REST backend for tests.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/matheus3301/wppdash/internal/model"
)

const perPage = 10

// Valid login for the fake backend.
const (
	Email    = "a@b.com"
	Password = "x"
	Token    = "t1"
)

// Request is a recorded call.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// LegacyContact is a /side_bar_contacts element.
type LegacyContact struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	LastMessage   string `json:"last_message,omitempty"`
	LastMessageAt string `json:"last_message_at,omitempty"`
	UnreadCount   int    `json:"unread_count,omitempty"`
}

// Server is the fake backend. Set exported fields only between requests.
type Server struct {
	User model.User

	// Sidebar is served by GET /sidebar, Legacy by GET /side_bar_contacts.
	Sidebar []map[string]any
	Legacy  []LegacyContact
	Data    map[string]any

	// BareLists makes list endpoints answer with a bare array.
	BareLists bool

	mu       sync.Mutex
	engine   *gin.Engine
	srv      *httptest.Server
	nextID   int64
	contacts []model.Contact
	groups   []model.Group
	messages map[int64][]model.Message
	failures map[string]int
	requests []Request
}

// New creates a backend seeded with no data.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		User:     model.User{ID: 1, Name: "A", Email: Email},
		Data:     map[string]any{"whatsappData": []any{}, "contacts": []any{}, "chatsContacts": []any{}, "messages_chats": []any{}},
		nextID:   100,
		messages: map[int64][]model.Message{},
		failures: map[string]int{},
	}
	s.engine = gin.New()
	s.engine.Use(s.record, s.inject)
	s.routes()
	return s
}

// Start serves the backend and returns its base URL.
func (s *Server) Start() string {
	s.srv = httptest.NewServer(s.engine)
	return s.srv.URL
}

// Close stops the backend.
func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
	}
}

// Fail makes every request matching "METHOD /path" answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Requests returns the recorded calls in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// SeedContacts appends contacts with server-assigned ids.
func (s *Server) SeedContacts(names ...string) []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Contact
	for _, n := range names {
		c := model.Contact{ID: s.id(), Name: n}
		s.contacts = append(s.contacts, c)
		out = append(out, c)
	}
	return out
}

// SeedGroup adds a group.
func (s *Server) SeedGroup(name string) model.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := model.Group{ID: s.id(), Name: name}
	s.groups = append(s.groups, g)
	return g
}

// SeedMessages stores messages for a group.
func (s *Server) SeedMessages(groupID int64, texts ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txt := range texts {
		s.messages[groupID] = append(s.messages[groupID], model.Message{ID: s.id(), GroupID: groupID, Text: txt, Status: "sent"})
	}
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) record(c *gin.Context) {
	body, _ := c.GetRawData()
	c.Request.Body = http.NoBody
	c.Set("body", body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Auth:   c.GetHeader("Authorization"),
		Body:   string(body),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	status, ok := s.failures[c.Request.Method+" "+c.Request.URL.Path]
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"message": http.StatusText(status)})
		return
	}
	if c.Request.URL.Path != "/login" && c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context, items any, page, last, total int) {
	if s.BareLists {
		c.JSON(http.StatusOK, items)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "current_page": page, "last_page": last, "total": total})
}

func bind(c *gin.Context, v any) bool {
	body, _ := c.Get("body")
	raw, _ := body.([]byte)
	if err := decode(raw, v); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return 0, false
	}
	return id, true
}

func matches(name, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(name), strings.ToLower(search))
}
