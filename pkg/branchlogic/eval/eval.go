// Package eval reduces a substituted branching-logic AST to a single
// boolean, applying REDCap comparison and coercion semantics.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/ast"
)

// TypeError reports an operator/operand combination with no defined
// comparison semantics, such as ordering a checkbox-derived boolean.
type TypeError struct {
	Op    string
	Left  string
	Right string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: cannot apply %s to %s and %s", e.Op, e.Left, e.Right)
}

// Evaluate reduces node to a boolean. The tree must contain no field
// references; evaluate the output of resolve.Substitute.
func Evaluate(node ast.Node) (bool, error) {
	switch n := node.(type) {
	case ast.Literal:
		return ToBoolean(n), nil
	case ast.FieldRef:
		return false, fmt.Errorf("evaluate: unresolved field reference %s", n)
	case *ast.Expr:
		return evaluateExpr(n)
	default:
		return false, fmt.Errorf("evaluate: unknown node type %T", node)
	}
}

func evaluateExpr(e *ast.Expr) (bool, error) {
	if e.Op.IsComparison() {
		if len(e.Operands) != 2 {
			return false, fmt.Errorf("evaluate: %s with %d operands", e.Op, len(e.Operands))
		}
		left, err := comparisonOperand(e, e.Operands[0])
		if err != nil {
			return false, err
		}
		right, err := comparisonOperand(e, e.Operands[1])
		if err != nil {
			return false, err
		}
		return Compare(e.Op, left, right)
	}

	switch e.Op {
	case ast.OpAnd:
		for _, operand := range e.Operands {
			v, err := Evaluate(operand)
			if err != nil {
				return false, err
			}
			if !v {
				return false, nil
			}
		}
		return true, nil
	case ast.OpOr:
		for _, operand := range e.Operands {
			v, err := Evaluate(operand)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("evaluate: unknown operator %s", e.Op)
	}
}

// comparisonOperand enforces the invariant that comparison children
// are literals after substitution.
func comparisonOperand(e *ast.Expr, operand ast.Node) (ast.Literal, error) {
	lit, ok := operand.(ast.Literal)
	if !ok {
		return ast.Literal{}, &TypeError{
			Op:    e.Op.String(),
			Left:  e.Operands[0].String(),
			Right: e.Operands[1].String(),
		}
	}
	return lit, nil
}

// ToBoolean coerces a literal to a boolean using REDCap truthiness:
// missing, numeric zero, and the empty string are false; every other
// value is true.
func ToBoolean(l ast.Literal) bool {
	switch l.Kind {
	case ast.KindBool:
		return l.Bool
	case ast.KindNumber:
		return l.Number != 0
	case ast.KindString:
		return l.Str != ""
	default: // ast.KindEmpty
		return false
	}
}

// Compare applies a comparison operator to two literals.
//
// Coercion policy, in order:
//   - A boolean operand (a resolved checkbox option) supports only
//     = and <>, compared against the truthiness of the other side.
//     Truthiness here is numeric-aware: '0' and 0 are false, so
//     [race(2)] = '0' tests "option unchecked". Ordering a boolean is
//     a *TypeError.
//   - A missing operand (empty literal or empty string) equals only
//     another missing operand, and never satisfies an ordering.
//   - If both sides are numeric or numeric-looking strings, the
//     comparison is numeric.
//   - Otherwise strings: exact equality, lexicographic ordering.
func Compare(op ast.Op, left, right ast.Literal) (bool, error) {
	if !op.IsComparison() {
		return false, fmt.Errorf("compare: %s is not a comparison operator", op)
	}

	if left.Kind == ast.KindBool || right.Kind == ast.KindBool {
		switch op {
		case ast.OpEq:
			return checkboxTruth(left) == checkboxTruth(right), nil
		case ast.OpNeq:
			return checkboxTruth(left) != checkboxTruth(right), nil
		default:
			return false, &TypeError{Op: op.String(), Left: left.String(), Right: right.String()}
		}
	}

	leftEmpty, rightEmpty := isEmpty(left), isEmpty(right)
	if leftEmpty || rightEmpty {
		switch op {
		case ast.OpEq:
			return leftEmpty && rightEmpty, nil
		case ast.OpNeq:
			return !(leftEmpty && rightEmpty), nil
		default:
			// Missing values never satisfy an ordering.
			return false, nil
		}
	}

	if lf, lok := numericValue(left); lok {
		if rf, rok := numericValue(right); rok {
			return compareFloats(op, lf, rf), nil
		}
	}
	return compareStrings(op, stringValue(left), stringValue(right)), nil
}

// checkboxTruth coerces an operand compared against a checkbox
// boolean. Unlike ToBoolean, numeric-looking strings coerce by their
// numeric value, so '0' matches an unselected option even though "0"
// is a non-empty string.
func checkboxTruth(l ast.Literal) bool {
	if l.Kind == ast.KindBool {
		return l.Bool
	}
	if f, ok := numericValue(l); ok {
		return f != 0
	}
	return ToBoolean(l)
}

// isEmpty reports whether a literal counts as missing for comparison
// purposes. The empty string literal '' compares equal to a missing
// field.
func isEmpty(l ast.Literal) bool {
	return l.Kind == ast.KindEmpty || (l.Kind == ast.KindString && l.Str == "")
}

// numericValue returns the numeric value of a number literal or a
// numeric-looking string.
func numericValue(l ast.Literal) (float64, bool) {
	switch l.Kind {
	case ast.KindNumber:
		return l.Number, true
	case ast.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(l.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringValue returns the comparison string form of a non-boolean,
// non-empty literal.
func stringValue(l ast.Literal) string {
	if l.Kind == ast.KindNumber {
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	}
	return l.Str
}

func compareFloats(op ast.Op, left, right float64) bool {
	switch op {
	case ast.OpEq:
		return left == right
	case ast.OpNeq:
		return left != right
	case ast.OpLt:
		return left < right
	case ast.OpLte:
		return left <= right
	case ast.OpGt:
		return left > right
	default: // ast.OpGte
		return left >= right
	}
}

func compareStrings(op ast.Op, left, right string) bool {
	switch op {
	case ast.OpEq:
		return left == right
	case ast.OpNeq:
		return left != right
	case ast.OpLt:
		return left < right
	case ast.OpLte:
		return left <= right
	case ast.OpGt:
		return left > right
	default: // ast.OpGte
		return left >= right
	}
}
