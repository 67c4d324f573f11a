// Package catalog holds the fixed sets of assignable items (teams, awards)
// that predictions are made over.
package catalog

// Item is a single assignable entry with a stable identifier.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Catalog is an ordered, immutable list of items.
type Catalog struct {
	items []Item
	index map[string]int
}

// New builds a catalog, preserving the given order.
func New(items ...Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, it := range items {
		if it.ID == "" {
			return nil, ErrInvalidItem
		}
		if _, dup := c.index[it.ID]; dup {
			return nil, ErrDuplicateItem
		}
		c.items[i] = it
		c.index[it.ID] = i
	}
	return c, nil
}

// MustNew is New for package-level fixtures; it panics on error.
func MustNew(items ...Item) *Catalog {
	c, err := New(items...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of items (N).
func (c *Catalog) Len() int { return len(c.items) }

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns the item ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.items))
	for i, it := range c.items {
		out[i] = it.ID
	}
	return out
}

// Contains reports whether id belongs to the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Position returns the zero-based catalog position of id.
func (c *Catalog) Position(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Lookup returns the item for id.
func (c *Catalog) Lookup(id string) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Label returns the display label for id, or id itself when it is unknown.
func (c *Catalog) Label(id string) string {
	if it, ok := c.Lookup(id); ok {
		return it.Label
	}
	return id
}
