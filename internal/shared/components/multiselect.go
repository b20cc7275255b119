// Package components holds the server side model of the progressive
// enhancement widgets. The browser scripts under /assets drive the same
// contracts; these types build their initial state and back the no-JS path.
package components

import (
	"errors"
	"fmt"
)

var ErrNotInitialised = errors.New("component not initialised")

// Action is a button on the multi-select sticky bar. MaxSelected of zero
// means no limit.
type Action struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	MaxSelected int    `json:"maxSelected,omitempty"`
}

// MultiSelect tracks the ticked rows of a table and the state of its sticky
// action bar
type MultiSelect struct {
	items    []string
	selected map[string]bool
	actions  map[string]Action
	order    []string
	active   bool
}

// Init binds the widget to its rows and actions, clearing any old state
func (m *MultiSelect) Init(items []string, actions []Action) {
	m.items = append([]string(nil), items...)
	m.selected = make(map[string]bool, len(items))
	m.actions = make(map[string]Action, len(actions))
	m.order = m.order[:0]
	for _, a := range actions {
		m.actions[a.Name] = a
		m.order = append(m.order, a.Name)
	}
	m.active = true
}

// Teardown releases all state. The widget must be initialised again to use it.
func (m *MultiSelect) Teardown() {
	m.items = nil
	m.selected = nil
	m.actions = nil
	m.order = nil
	m.active = false
}

// Toggle flips one row
func (m *MultiSelect) Toggle(item string) error {
	if !m.active {
		return ErrNotInitialised
	}
	if !m.known(item) {
		return fmt.Errorf("unknown item %q", item)
	}
	if m.selected[item] {
		delete(m.selected, item)
	} else {
		m.selected[item] = true
	}
	return nil
}

// SelectAll ticks every row, or clears them all when every row is ticked
func (m *MultiSelect) SelectAll() error {
	if !m.active {
		return ErrNotInitialised
	}
	if len(m.selected) == len(m.items) {
		m.selected = make(map[string]bool, len(m.items))
		return nil
	}
	for _, item := range m.items {
		m.selected[item] = true
	}
	return nil
}

// Selected returns the ticked rows in table order
func (m *MultiSelect) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for _, item := range m.items {
		if m.selected[item] {
			out = append(out, item)
		}
	}
	return out
}

// Count is the number of ticked rows
func (m *MultiSelect) Count() int {
	return len(m.selected)
}

// SelectedText is the live count shown on the sticky bar
func (m *MultiSelect) SelectedText() string {
	return fmt.Sprintf("%d selected", len(m.selected))
}

// StickyBarVisible reports whether the action bar is shown
func (m *MultiSelect) StickyBarVisible() bool {
	return m.active && len(m.selected) > 0
}

// ActionDisabled reports whether an action button is greyed out: nothing is
// selected, or more rows are selected than the action allows
func (m *MultiSelect) ActionDisabled(name string) bool {
	action, ok := m.actions[name]
	if !ok || len(m.selected) == 0 {
		return true
	}
	return action.MaxSelected > 0 && len(m.selected) > action.MaxSelected
}

// ActionState is one sticky bar button as rendered
type ActionState struct {
	Action
	Disabled bool `json:"disabled"`
}

// View is the template context for the widget
type View struct {
	Selected         []string      `json:"selected"`
	SelectedText     string        `json:"selectedText"`
	StickyBarVisible bool          `json:"stickyBarVisible"`
	Actions          []ActionState `json:"actions"`
}

// View snapshots the widget for rendering
func (m *MultiSelect) View() View {
	v := View{
		Selected:         m.Selected(),
		SelectedText:     m.SelectedText(),
		StickyBarVisible: m.StickyBarVisible(),
		Actions:          make([]ActionState, 0, len(m.order)),
	}
	for _, name := range m.order {
		v.Actions = append(v.Actions, ActionState{Action: m.actions[name], Disabled: m.ActionDisabled(name)})
	}
	return v
}

func (m *MultiSelect) known(item string) bool {
	for _, i := range m.items {
		if i == item {
			return true
		}
	}
	return false
}
