package ast

import "testing"

func TestLiteralString(t *testing.T) {
	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{"empty", Empty(), "''"},
		{"true", Bool(true), "1"},
		{"false", Bool(false), "0"},
		{"integer", Number(42), "42"},
		{"negative integer", Number(-3), "-3"},
		{"decimal", Number(2.5), "2.5"},
		{"large number stays plain", Number(1000000), "1000000"},
		{"string", String("hello"), "'hello'"},
		{"empty string", String(""), "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lit.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldRefString(t *testing.T) {
	tests := []struct {
		name string
		ref  FieldRef
		want string
	}{
		{"plain field", FieldRef{Name: "age"}, "[age]"},
		{"field in event", FieldRef{Name: "age", Event: "baseline"}, "[baseline][age]"},
		{"checkbox option", FieldRef{Name: "race", CheckOption: "2"}, "[race(2)]"},
		{
			"checkbox option in event",
			FieldRef{Name: "race", Event: "visit_1", CheckOption: "2"},
			"[visit_1][race(2)]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	age := FieldRef{Name: "age"}
	sex := FieldRef{Name: "sex"}
	smoker := FieldRef{Name: "smoker"}

	cmp := func(op Op, left, right Node) *Expr {
		return &Expr{Op: op, Operands: []Node{left, right}}
	}

	tests := []struct {
		name string
		expr *Expr
		want string
	}{
		{"comparison", cmp(OpGt, age, Number(18)), "[age] > 18"},
		{"not equal", cmp(OpNeq, sex, String("1")), "[sex] <> '1'"},
		{
			"flat and chain",
			&Expr{Op: OpAnd, Operands: []Node{
				cmp(OpGt, age, Number(18)),
				cmp(OpEq, sex, String("1")),
				cmp(OpEq, smoker, String("1")),
			}},
			"[age] > 18 and [sex] = '1' and [smoker] = '1'",
		},
		{
			"or of and keeps no parens",
			&Expr{Op: OpOr, Operands: []Node{
				&Expr{Op: OpAnd, Operands: []Node{
					cmp(OpEq, sex, String("1")),
					cmp(OpGt, age, Number(18)),
				}},
				cmp(OpEq, smoker, String("1")),
			}},
			"[sex] = '1' and [age] > 18 or [smoker] = '1'",
		},
		{
			"and of or gets parens",
			&Expr{Op: OpAnd, Operands: []Node{
				&Expr{Op: OpOr, Operands: []Node{
					cmp(OpEq, sex, String("1")),
					cmp(OpEq, sex, String("2")),
				}},
				cmp(OpGt, age, Number(18)),
			}},
			"([sex] = '1' or [sex] = '2') and [age] > 18",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpIsComparison(t *testing.T) {
	comparisons := []Op{OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte}
	for _, op := range comparisons {
		if !op.IsComparison() {
			t.Errorf("%s.IsComparison() = false, want true", op)
		}
	}
	for _, op := range []Op{OpAnd, OpOr} {
		if op.IsComparison() {
			t.Errorf("%s.IsComparison() = true, want false", op)
		}
	}
}
