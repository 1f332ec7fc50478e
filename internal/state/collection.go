package state

import "slices"

// collection is an ordered entity list keyed by a server-assigned id.
// It is not safe for concurrent use; owners guard it.
type collection[T any] struct {
	items []T
	id    func(T) int64
}

func newCollection[T any](id func(T) int64) collection[T] {
	return collection[T]{items: []T{}, id: id}
}

// set replaces the whole list.
func (c *collection[T]) set(items []T) {
	if items == nil {
		items = []T{}
	}
	c.items = items
}

// prepend puts item at index 0.
func (c *collection[T]) prepend(item T) {
	c.items = slices.Insert(c.items, 0, item)
}

// replace swaps the entry with item's id in place. Returns false, leaving the
// list untouched, when no entry has that id.
func (c *collection[T]) replace(item T) bool {
	i := c.index(c.id(item))
	if i < 0 {
		return false
	}
	c.items[i] = item
	return true
}

// remove drops every entry with the given id.
func (c *collection[T]) remove(id int64) bool {
	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(it T) bool { return c.id(it) == id })
	return len(c.items) != n
}

func (c *collection[T]) find(id int64) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) index(id int64) int {
	return slices.IndexFunc(c.items, func(it T) bool { return c.id(it) == id })
}

// snapshot returns a copy safe to hand to callers.
func (c *collection[T]) snapshot() []T {
	return slices.Clone(c.items)
}
