// Package dictionary models the data dictionary that branching logic
// is written against: field names, field types, checkbox choices, and
// the logic string attached to each field.
package dictionary

import (
	"errors"
	"fmt"
)

// FieldType identifies how a field collects its value.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNotes    FieldType = "notes"
	TypeRadio    FieldType = "radio"
	TypeDropdown FieldType = "dropdown"
	TypeCheckbox FieldType = "checkbox"
	TypeYesNo    FieldType = "yesno"
)

// Field describes one data-collection field.
type Field struct {
	// Name is the field's variable name. Required.
	Name string `yaml:"name" json:"name"`

	// Type is the field type. Defaults to text when omitted.
	Type FieldType `yaml:"type,omitempty" json:"type,omitempty"`

	// Label is the human-readable prompt.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`

	// Choices maps option codes to option labels for radio, dropdown,
	// and checkbox fields.
	Choices map[string]string `yaml:"choices,omitempty" json:"choices,omitempty"`

	// BranchingLogic is the logic string deciding whether the field is
	// shown. Empty means the field is always shown.
	BranchingLogic string `yaml:"branching_logic,omitempty" json:"branching_logic,omitempty"`
}

// Dictionary is an ordered collection of field definitions.
type Dictionary struct {
	fields map[string]Field
	order  []string
}

// New creates a Dictionary from field definitions, preserving their
// order. Field names must be non-empty and unique.
func New(fields []Field) (*Dictionary, error) {
	d := &Dictionary{
		fields: make(map[string]Field, len(fields)),
		order:  make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("field name is required")
		}
		if _, exists := d.fields[f.Name]; exists {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if f.Type == "" {
			f.Type = TypeText
		}
		d.fields[f.Name] = f
		d.order = append(d.order, f.Name)
	}
	return d, nil
}

// Field returns the definition for a field name.
func (d *Dictionary) Field(name string) (Field, bool) {
	f, ok := d.fields[name]
	return f, ok
}

// Has reports whether the dictionary defines a field.
func (d *Dictionary) Has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// Fields returns all field definitions in dictionary order.
func (d *Dictionary) Fields() []Field {
	fields := make([]Field, 0, len(d.order))
	for _, name := range d.order {
		fields = append(fields, d.fields[name])
	}
	return fields
}

// Len returns the number of fields.
func (d *Dictionary) Len() int {
	return len(d.order)
}

// Choices returns the option code map for a field, or nil if the field
// is unknown or has no choices.
func (d *Dictionary) Choices(name string) map[string]string {
	return d.fields[name].Choices
}
