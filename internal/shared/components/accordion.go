package components

import (
	"activitiesui/internal/shared/session"
)

// StateStore persists expand/collapse flags keyed by content id
type StateStore interface {
	Expanded(contentID string) (bool, bool)
	SetExpanded(contentID string, expanded bool) error
}

// Accordion is a set of collapsible sections, e.g. the days of the
// appointments calendar
type Accordion struct {
	store    StateStore
	sections []string
}

// NewAccordion binds sections to store
func NewAccordion(store StateStore, sections ...string) *Accordion {
	return &Accordion{store: store, sections: sections}
}

// Expanded reports whether a section is open. Sections never touched start closed.
func (a *Accordion) Expanded(contentID string) bool {
	open, _ := a.store.Expanded(contentID)
	return open
}

// Toggle flips one section and returns its new state
func (a *Accordion) Toggle(contentID string) (bool, error) {
	open := !a.Expanded(contentID)
	return open, a.store.SetExpanded(contentID, open)
}

// ExpandAll opens every section
func (a *Accordion) ExpandAll() error {
	return a.setAll(true)
}

// CollapseAll closes every section
func (a *Accordion) CollapseAll() error {
	return a.setAll(false)
}

// AllExpanded drives the "Show all sections" / "Hide all sections" label
func (a *Accordion) AllExpanded() bool {
	for _, id := range a.sections {
		if !a.Expanded(id) {
			return false
		}
	}
	return len(a.sections) > 0
}

// State returns every section's flag for the template
func (a *Accordion) State() map[string]bool {
	state := make(map[string]bool, len(a.sections))
	for _, id := range a.sections {
		state[id] = a.Expanded(id)
	}
	return state
}

func (a *Accordion) setAll(open bool) error {
	for _, id := range a.sections {
		if err := a.store.SetExpanded(id, open); err != nil {
			return err
		}
	}
	return nil
}

const accordionKey = "accordionState"

// SessionState keeps accordion flags in the HTTP session
type SessionState struct {
	sess *session.Session
}

func NewSessionState(sess *session.Session) *SessionState {
	return &SessionState{sess: sess}
}

func (s *SessionState) Expanded(contentID string) (bool, bool) {
	state := s.load()
	open, ok := state[contentID]
	return open, ok
}

func (s *SessionState) SetExpanded(contentID string, expanded bool) error {
	state := s.load()
	state[contentID] = expanded
	return s.sess.Set(accordionKey, state)
}

func (s *SessionState) load() map[string]bool {
	state := make(map[string]bool)
	if _, err := s.sess.Get(accordionKey, &state); err != nil {
		return make(map[string]bool)
	}
	return state
}
