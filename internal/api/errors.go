package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is returned for every failed request. Response is nil when the
// request never produced an HTTP response (DNS, connection, timeout).
type Error struct {
	Method   string
	Path     string
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	if e.Response == nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Response.Status, http.StatusText(e.Response.Status))
	if m := e.Message(); m != "" {
		msg += ": " + m
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the "message" field of a JSON error body, if any.
func (e *Error) Message() string {
	if e.Response == nil || len(e.Response.Data) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Response.Data, &body) != nil {
		return ""
	}
	return body.Message
}

// StatusOf returns the HTTP status carried by err, if it has one.
func StatusOf(err error) (int, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Response == nil {
		return 0, false
	}
	return apiErr.Response.Status, true
}
