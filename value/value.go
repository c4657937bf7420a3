// Package value models the state tree held by the store.
//
// A state tree is rooted at a *Map. Entries are either leaves (nil, bool,
// strings, numbers, time.Time or any other non-container Go value) or
// containers (*Map, *List). Containers can be frozen with DeepFreeze; once
// frozen every mutating method returns a *MutationError matching ErrFrozen.
//
// Byte slices are copied on the way in and on the way out. Pointers, channels,
// functions and structs holding references are opaque leaves: they are stored
// as given, DeepFreeze does not look inside them, and keeping them immutable
// is up to the caller.
//
// Containers are not safe for concurrent mutation. Frozen containers are safe
// for concurrent reads.
package value

import (
	"sort"
	"sync/atomic"
)

// Map is a string-keyed state container.
type Map struct {
	entries map[string]any
	frozen  atomic.Bool
}

// NewMap returns an empty, mutable map.
func NewMap() *Map {
	return &Map{entries: map[string]any{}}
}

// MapOf builds a mutable map from native Go data. Nested maps and slices are
// converted to containers via FromNative.
func MapOf(entries map[string]any) *Map {
	m := &Map{entries: make(map[string]any, len(entries))}
	for key, entry := range entries {
		m.entries[key] = FromNative(entry)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the entry stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	entry, ok := m.entries[key]
	return exposeLeaf(entry), ok
}

// Map returns the nested map stored under key.
func (m *Map) Map(key string) (*Map, bool) {
	entry, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	nested, ok := entry.(*Map)
	return nested, ok
}

// List returns the nested list stored under key.
func (m *Map) List(key string) (*List, bool) {
	entry, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	nested, ok := entry.(*List)
	return nested, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys sorted alphabetically.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for each entry in key order until fn returns false.
func (m *Map) Range(fn func(key string, entry any) bool) {
	for _, key := range m.Keys() {
		if !fn(key, exposeLeaf(m.entries[key])) {
			return
		}
	}
}

// Set stores entry under key. Native maps and slices are converted to
// containers.
func (m *Map) Set(key string, entry any) error {
	if m == nil {
		return nilContainerError(OpSet, "map")
	}
	if m.IsFrozen() {
		return mutationError(OpSet, "map", key)
	}
	if m.entries == nil {
		m.entries = map[string]any{}
	}
	m.entries[key] = FromNative(entry)
	return nil
}

// Delete removes key.
func (m *Map) Delete(key string) error {
	if m == nil {
		return nilContainerError(OpDelete, "map")
	}
	if m.IsFrozen() {
		return mutationError(OpDelete, "map", key)
	}
	delete(m.entries, key)
	return nil
}

// IsFrozen reports whether the map rejects mutation.
func (m *Map) IsFrozen() bool {
	return m != nil && m.frozen.Load()
}

// List is an ordered state container.
type List struct {
	items  []any
	frozen atomic.Bool
}

// NewList returns a mutable list holding items.
func NewList(items ...any) *List {
	l := &List{items: make([]any, 0, len(items))}
	for _, item := range items {
		l.items = append(l.items, FromNative(item))
	}
	return l
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the item at index i.
func (l *List) At(i int) (any, bool) {
	if l == nil || i < 0 || i >= len(l.items) {
		return nil, false
	}
	return exposeLeaf(l.items[i]), true
}

// Items returns a copy of the list items. Nested containers are shared.
func (l *List) Items() []any {
	if l == nil {
		return nil
	}
	items := make([]any, len(l.items))
	for i, item := range l.items {
		items[i] = exposeLeaf(item)
	}
	return items
}

// Set replaces the item at index i.
func (l *List) Set(i int, item any) error {
	if l == nil {
		return nilContainerError(OpSet, "list")
	}
	if l.IsFrozen() {
		return mutationError(OpSet, "list", indexPath(i))
	}
	if i < 0 || i >= len(l.items) {
		return &IndexError{Index: i, Len: len(l.items)}
	}
	l.items[i] = FromNative(item)
	return nil
}

// Append adds items to the end of the list.
func (l *List) Append(items ...any) error {
	if l == nil {
		return nilContainerError(OpAppend, "list")
	}
	if l.IsFrozen() {
		return mutationError(OpAppend, "list", "")
	}
	for _, item := range items {
		l.items = append(l.items, FromNative(item))
	}
	return nil
}

// IsFrozen reports whether the list rejects mutation.
func (l *List) IsFrozen() bool {
	return l != nil && l.frozen.Load()
}
