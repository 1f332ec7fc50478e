package model

import (
	"bytes"
	"encoding/json"
)

// Pagination describes the position of a fetched list page.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// DefaultPagination is used when a response carries no pagination fields.
var DefaultPagination = Pagination{CurrentPage: 1, LastPage: 1, Total: 0}

// Page is a list response. The API answers list endpoints either with an
// envelope {data, current_page, last_page, total} or with a bare JSON array;
// both decode into the same Page with defaults filled in.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
	Enveloped  bool
}

// UnmarshalJSON accepts an envelope object or a bare array. Any other shape
// (null, an object without data, a scalar) decodes to an empty page.
// Pagination fields may be numbers, numeric strings or null; anything else
// falls back to the defaults. Elements that do not decode as T are skipped.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	*p = Page[T]{Items: []T{}, Pagination: DefaultPagination}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		p.Items = decodeItems[T](b)
	case '{':
		o := parseObject(b)
		p.Enveloped = true
		p.Pagination = normalize(
			int(o.takeInt("current_page")),
			int(o.takeInt("last_page")),
			int(o.takeInt("total")),
		)
		p.Items = decodeItems[T](o["data"])
	}
	return nil
}

func decodeItems[T any](b []byte) []T {
	var raws []json.RawMessage
	if json.Unmarshal(b, &raws) != nil {
		return []T{}
	}
	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if json.Unmarshal(raw, &v) != nil {
			continue
		}
		items = append(items, v)
	}
	return items
}

func normalize(current, last, total int) Pagination {
	pg := DefaultPagination
	if current > 0 {
		pg.CurrentPage = current
	}
	if last > 0 {
		pg.LastPage = last
	}
	if total > 0 {
		pg.Total = total
	}
	return pg
}
