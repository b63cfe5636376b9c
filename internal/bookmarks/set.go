// Package bookmarks holds a reader's starred verses.
package bookmarks

import "github.com/mrlokans/shloka/internal/scripture"

// Set is an insertion-ordered bookmark set that also remembers every verse
// that was ever bookmarked. It is not safe for concurrent use.
type Set struct {
	order   []scripture.Ref
	members map[scripture.Ref]bool
	history []scripture.Ref
	ever    map[scripture.Ref]bool
}

// State is the persisted form of a Set.
type State struct {
	Bookmarks []scripture.Ref `json:"bookmarks"`
	History   []scripture.Ref `json:"history"`
}

func NewSet() *Set {
	return &Set{
		members: make(map[scripture.Ref]bool),
		ever:    make(map[scripture.Ref]bool),
	}
}

// Add is idempotent and reports whether ref had never been bookmarked before.
func (s *Set) Add(ref scripture.Ref) bool {
	first := !s.ever[ref]
	if first {
		s.ever[ref] = true
		s.history = append(s.history, ref)
	}
	if !s.members[ref] {
		s.members[ref] = true
		s.order = append(s.order, ref)
	}
	return first
}

// Remove is idempotent.
func (s *Set) Remove(ref scripture.Ref) {
	if !s.members[ref] {
		return
	}
	delete(s.members, ref)
	for i, r := range s.order {
		if r == ref {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Set) Contains(ref scripture.Ref) bool {
	return s.members[ref]
}

func (s *Set) EverBookmarked(ref scripture.Ref) bool {
	return s.ever[ref]
}

// All returns the bookmarks in the order they were added.
func (s *Set) All() []scripture.Ref {
	return append([]scripture.Ref{}, s.order...)
}

func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) State() State {
	return State{
		Bookmarks: s.All(),
		History:   append([]scripture.Ref{}, s.history...),
	}
}

// Restore replaces the set's contents. Current bookmarks missing from the
// history are added to it.
func (s *Set) Restore(st State) {
	restored := NewSet()
	for _, ref := range st.History {
		if !restored.ever[ref] {
			restored.ever[ref] = true
			restored.history = append(restored.history, ref)
		}
	}
	for _, ref := range st.Bookmarks {
		restored.Add(ref)
	}
	*s = *restored
}

func (s *Set) Clone() *Set {
	out := NewSet()
	out.Restore(s.State())
	return out
}
