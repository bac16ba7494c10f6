package grammar

import (
	"errors"
	"reflect"
	"testing"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/ast"
)

func mustParse(t *testing.T, text string) ast.Node {
	t.Helper()
	node, err := CreateAST(text)
	if err != nil {
		t.Fatalf("CreateAST(%q) returned error: %v", text, err)
	}
	return node
}

func TestCreateAST_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		node, err := CreateAST(text)
		if err != nil {
			t.Fatalf("CreateAST(%q) returned error: %v", text, err)
		}
		if !reflect.DeepEqual(node, ast.Bool(true)) {
			t.Errorf("CreateAST(%q) = %#v, want literal true", text, node)
		}
	}
}

func TestCreateAST_Operands(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ast.Node
	}{
		{"plain field", "[age]", ast.FieldRef{Name: "age"}},
		{"field in event", "[baseline][age]", ast.FieldRef{Name: "age", Event: "baseline"}},
		{"checkbox option", "[race(2)]", ast.FieldRef{Name: "race", CheckOption: "2"}},
		{
			"checkbox option in event",
			"[visit_1][race(2)]",
			ast.FieldRef{Name: "race", Event: "visit_1", CheckOption: "2"},
		},
		{"integer", "42", ast.Number(42)},
		{"negative integer", "-5", ast.Number(-5)},
		{"decimal", "2.5", ast.Number(2.5)},
		{"single quoted string", "'yes'", ast.String("yes")},
		{"double quoted string", `"yes"`, ast.String("yes")},
		{"empty string literal", "''", ast.String("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CreateAST(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCreateAST_Comparisons(t *testing.T) {
	tests := []struct {
		text string
		op   ast.Op
	}{
		{"[age] = 18", ast.OpEq},
		{"[age] <> 18", ast.OpNeq},
		{"[age] < 18", ast.OpLt},
		{"[age] <= 18", ast.OpLte},
		{"[age] > 18", ast.OpGt},
		{"[age] >= 18", ast.OpGte},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			want := &ast.Expr{Op: tt.op, Operands: []ast.Node{
				ast.FieldRef{Name: "age"},
				ast.Number(18),
			}}
			got := mustParse(t, tt.text)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("CreateAST(%q) = %#v, want %#v", tt.text, got, want)
			}
		})
	}
}

func TestCreateAST_Precedence(t *testing.T) {
	// and binds tighter than or, independent of textual order.
	got := mustParse(t, "[a]='1' or [b]='1' and [c]='1'")
	eq := func(name string) ast.Node {
		return &ast.Expr{Op: ast.OpEq, Operands: []ast.Node{
			ast.FieldRef{Name: name},
			ast.String("1"),
		}}
	}
	want := &ast.Expr{Op: ast.OpOr, Operands: []ast.Node{
		eq("a"),
		&ast.Expr{Op: ast.OpAnd, Operands: []ast.Node{eq("b"), eq("c")}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("precedence mismatch:\ngot  %#v\nwant %#v", got, want)
	}

	// Parentheses override precedence.
	got = mustParse(t, "([a]='1' or [b]='1') and [c]='1'")
	want = &ast.Expr{Op: ast.OpAnd, Operands: []ast.Node{
		&ast.Expr{Op: ast.OpOr, Operands: []ast.Node{eq("a"), eq("b")}},
		eq("c"),
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parenthesized precedence mismatch:\ngot  %#v\nwant %#v", got, want)
	}
}

func TestCreateAST_FlattensChains(t *testing.T) {
	node := mustParse(t, "[a] and [b] and [c]")
	expr, ok := node.(*ast.Expr)
	if !ok || expr.Op != ast.OpAnd {
		t.Fatalf("expected and-expression, got %#v", node)
	}
	if len(expr.Operands) != 3 {
		t.Errorf("len(Operands) = %d, want 3 (flattened chain)", len(expr.Operands))
	}
}

func TestCreateAST_CaseInsensitiveKeywords(t *testing.T) {
	for _, text := range []string{"[a] AND [b]", "[a] And [b]", "[a] and [b]"} {
		node := mustParse(t, text)
		expr, ok := node.(*ast.Expr)
		if !ok || expr.Op != ast.OpAnd {
			t.Errorf("CreateAST(%q): expected and-expression, got %#v", text, node)
		}
	}
}

func TestCreateAST_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing right operand", "[age] >"},
		{"missing left operand", "> 18"},
		{"unbalanced paren", "([a] = '1'"},
		{"unbalanced bracket", "[age > 18"},
		{"empty field reference", "[] = '1'"},
		{"trailing characters", "[a] = '1' [b]"},
		{"chained comparison", "[a] < 1 < 2"},
		{"dangling and", "[a] = '1' and"},
		{"unterminated string", "[a] = 'one"},
		{"unknown operator", "[a] ! '1'"},
		{"option on event qualifier", "[ev(1)][field]"},
		{"malformed number", "[a] = 1."},
		{"bare identifier", "age > 18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateAST(tt.text)
			if err == nil {
				t.Fatalf("CreateAST(%q) succeeded, want syntax error", tt.text)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("CreateAST(%q) error = %T, want *SyntaxError", tt.text, err)
			}
		})
	}
}

func TestCreateAST_ErrorPosition(t *testing.T) {
	_, err := CreateAST("[a] = '1' [b]")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("error = %T, want *SyntaxError", err)
	}
	if syntaxErr.Pos != 10 {
		t.Errorf("Pos = %d, want 10", syntaxErr.Pos)
	}
}

func TestCreateAST_RoundTrip(t *testing.T) {
	exprs := []string{
		"[age] > 18",
		"[race(2)] = '1'",
		"[baseline][age] >= 65 and [sex] = '1'",
		"[a] = '1' or [b] = '1' and [c] = '1'",
		"([a] = '1' or [b] = '1') and [c] <> ''",
		"[visit_1][meds(3)] = '1' or [age] < 12.5",
		"[score] <= -2",
	}

	for _, text := range exprs {
		t.Run(text, func(t *testing.T) {
			first := mustParse(t, text)
			second := mustParse(t, first.String())
			if !reflect.DeepEqual(first, second) {
				t.Errorf("round trip changed structure:\ntext     %q\nrendered %q\nfirst    %#v\nsecond   %#v",
					text, first.String(), first, second)
			}
		})
	}
}

func TestGrammar_IndependentParsers(t *testing.T) {
	// Separate Grammar values and repeated use of one value must not
	// share mutable state.
	g := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				if _, err := g.CreateAST("[a] = '1' and [b] > 2"); err != nil {
					t.Errorf("CreateAST returned error: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
