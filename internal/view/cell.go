package view

// Cell is a named piece of view state. Set stores the value and then calls
// the notify hook so the owner can schedule a refresh; the owner decides
// when that refresh is published.
// Cells are not safe for concurrent use on their own; View guards them.
type Cell[T any] struct {
	name   string
	value  T
	notify func(name string)
}

func newCell[T any](name string, initial T, notify func(string)) Cell[T] {
	return Cell[T]{name: name, value: initial, notify: notify}
}

func (c *Cell[T]) Get() T { return c.value }

func (c *Cell[T]) Set(v T) {
	c.value = v
	if c.notify != nil {
		c.notify(c.name)
	}
}
