package document

import "slices"

// Groups maps a key to the documents that produced it. Keys iterate in the order they
// were first added and documents within a group keep the order they were added in.
// A nil *Groups behaves as an empty set of groups.
type Groups struct {
	keys []string
	docs map[string][]*Document
}

// NewGroups returns an empty Groups.
func NewGroups() *Groups {
	return &Groups{docs: make(map[string][]*Document)}
}

// Add appends d to the group for key, creating the group if needed.
func (g *Groups) Add(key string, d *Document) {
	if g.docs == nil {
		g.docs = make(map[string][]*Document)
	}
	if _, ok := g.docs[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.docs[key] = append(g.docs[key], d)
}

// Keys returns the group keys in first-seen order.
func (g *Groups) Keys() []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.keys)
}

// Get returns the documents for key, or nil if there is no such group.
func (g *Groups) Get(key string) []*Document {
	if g == nil {
		return nil
	}
	return g.docs[key]
}

// Has reports whether a group exists for key.
func (g *Groups) Has(key string) bool {
	if g == nil {
		return false
	}
	_, ok := g.docs[key]
	return ok
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}
