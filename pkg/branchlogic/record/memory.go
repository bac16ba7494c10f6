package record

import (
	"sync"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/resolve"
)

// MemoryRecord is an in-memory field-value provider for a single
// record. It is safe for concurrent lookups once populated.
type MemoryRecord struct {
	mu sync.RWMutex

	// values maps event ("" = current context) -> field -> value.
	values map[string]map[string]any

	// checks maps event -> field -> option -> selected.
	checks map[string]map[string]map[string]bool
}

// NewMemoryRecord creates an empty in-memory record.
func NewMemoryRecord() *MemoryRecord {
	return &MemoryRecord{
		values: make(map[string]map[string]any),
		checks: make(map[string]map[string]map[string]bool),
	}
}

// Set stores a field value in the current evaluation context.
func (m *MemoryRecord) Set(field string, value any) {
	m.SetEvent("", field, value)
}

// SetEvent stores a field value under an event/instrument qualifier.
func (m *MemoryRecord) SetEvent(event, field string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[event] == nil {
		m.values[event] = make(map[string]any)
	}
	m.values[event][field] = value
}

// SetCheckbox stores the selected state of one checkbox option in the
// current evaluation context.
func (m *MemoryRecord) SetCheckbox(field, option string, selected bool) {
	m.SetEventCheckbox("", field, option, selected)
}

// SetEventCheckbox stores a checkbox option state under an event.
func (m *MemoryRecord) SetEventCheckbox(event, field, option string, selected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.checks[event] == nil {
		m.checks[event] = make(map[string]map[string]bool)
	}
	if m.checks[event][field] == nil {
		m.checks[event][field] = make(map[string]bool)
	}
	m.checks[event][field][option] = selected
}

// Lookup implements resolve.Provider. A checkbox lookup on a known
// checkbox field returns false for options never marked selected; a
// lookup on a field the record has never seen returns
// resolve.ErrNotFound.
func (m *MemoryRecord) Lookup(name, event, checkOption string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if checkOption != "" {
		if options := m.checks[event][name]; options != nil {
			return options[checkOption], nil
		}
		return nil, resolve.ErrNotFound
	}

	if fields := m.values[event]; fields != nil {
		if value, ok := fields[name]; ok {
			return value, nil
		}
	}
	return nil, resolve.ErrNotFound
}
