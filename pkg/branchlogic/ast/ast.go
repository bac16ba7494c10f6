// Package ast defines the abstract syntax tree for branching logic.
//
// A tree is built by the grammar package, has its field references
// replaced with literals by the resolve package, and is reduced to a
// single boolean by the eval package. Nodes are immutable once built;
// a tree belongs to the pipeline invocation that created it.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is a branching-logic AST node: a Literal, a FieldRef, or an
// operator *Expr.
type Node interface {
	// String renders the node in canonical surface syntax. For
	// parser-produced trees, parsing the result yields a structurally
	// identical tree. The empty literal has no surface form of its own;
	// it renders as '' and re-parses as the empty string, which
	// comparisons treat as equivalent.
	String() string

	node()
}

// Kind identifies the value class of a Literal.
type Kind int

const (
	// KindEmpty is a missing value. It is distinct from the empty
	// string and from numeric zero; comparisons treat it specially.
	KindEmpty Kind = iota

	// KindBool is a boolean, produced when a checkbox-option reference
	// is resolved ("is this option selected?").
	KindBool

	// KindNumber is a numeric value (integers and decimals share it).
	KindNumber

	// KindString is a string value.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Literal is a resolved scalar value.
type Literal struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
}

// Empty returns the missing-value literal.
func Empty() Literal { return Literal{Kind: KindEmpty} }

// Bool returns a boolean literal.
func Bool(b bool) Literal { return Literal{Kind: KindBool, Bool: b} }

// Number returns a numeric literal.
func Number(f float64) Literal { return Literal{Kind: KindNumber, Number: f} }

// String returns a string literal.
func String(s string) Literal { return Literal{Kind: KindString, Str: s} }

func (Literal) node() {}

// String implements Node.
func (l Literal) String() string {
	switch l.Kind {
	case KindBool:
		if l.Bool {
			return "1"
		}
		return "0"
	case KindNumber:
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	case KindString:
		return "'" + l.Str + "'"
	default: // KindEmpty
		return "''"
	}
}

// FieldRef identifies a single field slot in the data source. It is
// created by the parser and consumed exactly once by substitution,
// which replaces it with a Literal.
type FieldRef struct {
	// Name is the field identifier. Never empty.
	Name string

	// Event optionally selects a different event/instrument than the
	// current evaluation context. Empty means "current context".
	Event string

	// CheckOption optionally selects one option of a checkbox field.
	// When set, the resolved value is the option's selected state,
	// not the field's raw value.
	CheckOption string
}

func (FieldRef) node() {}

// String implements Node, rendering [event][name(option)] surface
// syntax with the optional parts omitted.
func (f FieldRef) String() string {
	var b strings.Builder
	if f.Event != "" {
		b.WriteString("[")
		b.WriteString(f.Event)
		b.WriteString("]")
	}
	b.WriteString("[")
	b.WriteString(f.Name)
	if f.CheckOption != "" {
		b.WriteString("(")
		b.WriteString(f.CheckOption)
		b.WriteString(")")
	}
	b.WriteString("]")
	return b.String()
}

// Op is an operator kind: a logical connective or a comparison.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// String returns the operator's surface syntax.
func (op Op) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// IsComparison reports whether op is one of = <> < <= > >=.
func (op Op) IsComparison() bool { return op != OpAnd && op != OpOr }

// Expr is an operator node. Comparisons have exactly two operands;
// And/Or have two or more (chains at the same precedence level are
// flattened into one node).
type Expr struct {
	Op       Op
	Operands []Node
}

func (*Expr) node() {}

// String implements Node. And-operands that are Or-expressions are
// parenthesized so the rendering re-parses to the same tree.
func (e *Expr) String() string {
	if e.Op.IsComparison() {
		return fmt.Sprintf("%s %s %s", e.Operands[0], e.Op, e.Operands[1])
	}
	parts := make([]string, len(e.Operands))
	for i, operand := range e.Operands {
		s := operand.String()
		if inner, ok := operand.(*Expr); ok && e.Op == OpAnd && inner.Op == OpOr {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " "+e.Op.String()+" ")
}
