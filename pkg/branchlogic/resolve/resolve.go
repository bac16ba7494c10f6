// Package resolve substitutes field references in a branching-logic
// AST with concrete values from a field-value provider.
package resolve

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/ast"
)

// ErrNotFound signals that a referenced field or event is absent from
// the data source. Providers return it (directly or wrapped) from
// Lookup; it is never surfaced by Substitute.
var ErrNotFound = errors.New("field not found")

// Provider is the sole point of contact with the surrounding data
// store. Lookup returns the current value for a field: a bool, a
// number, or a string. For a checkbox lookup (checkOption != "") the
// value is the option's selected state, not the field's raw value.
//
// A provider must be safe for concurrent reads if callers evaluate
// logic for many fields in parallel.
type Provider interface {
	Lookup(name, event, checkOption string) (any, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(name, event, checkOption string) (any, error)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(name, event, checkOption string) (any, error) {
	return f(name, event, checkOption)
}

// Substitute walks node depth-first and replaces every field-reference
// leaf with a literal obtained from p, returning a new tree of
// identical shape with no references remaining.
//
// A lookup that reports ErrNotFound becomes the empty literal rather
// than failing the evaluation: branching logic is routinely evaluated
// against partially populated records. Any other provider error
// propagates unchanged.
func Substitute(node ast.Node, p Provider) (ast.Node, error) {
	switch n := node.(type) {
	case ast.Literal:
		return n, nil
	case ast.FieldRef:
		value, err := p.Lookup(n.Name, n.Event, n.CheckOption)
		if errors.Is(err, ErrNotFound) {
			return ast.Empty(), nil
		}
		if err != nil {
			return nil, err
		}
		return toLiteral(value)
	case *ast.Expr:
		operands := make([]ast.Node, len(n.Operands))
		for i, operand := range n.Operands {
			sub, err := Substitute(operand, p)
			if err != nil {
				return nil, err
			}
			operands[i] = sub
		}
		return &ast.Expr{Op: n.Op, Operands: operands}, nil
	default:
		return nil, fmt.Errorf("substitute: unknown node type %T", node)
	}
}

// toLiteral maps a provider value onto a literal.
func toLiteral(value any) (ast.Node, error) {
	switch v := value.(type) {
	case nil:
		return ast.Empty(), nil
	case bool:
		return ast.Bool(v), nil
	case string:
		return ast.String(v), nil
	case float64:
		return ast.Number(v), nil
	case float32:
		return ast.Number(float64(v)), nil
	case int:
		return ast.Number(float64(v)), nil
	case int32:
		return ast.Number(float64(v)), nil
	case int64:
		return ast.Number(float64(v)), nil
	case ast.Literal:
		return v, nil
	default:
		return nil, fmt.Errorf("substitute: unsupported provider value type %T", value)
	}
}
