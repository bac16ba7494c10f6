package resolve

import (
	"errors"
	"reflect"
	"testing"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/ast"
)

// mapProvider serves values keyed by the rendered reference and counts
// lookups.
type mapProvider struct {
	values  map[string]any
	lookups int
}

func (p *mapProvider) Lookup(name, event, checkOption string) (any, error) {
	p.lookups++
	key := ast.FieldRef{Name: name, Event: event, CheckOption: checkOption}.String()
	if v, ok := p.values[key]; ok {
		return v, nil
	}
	return nil, ErrNotFound
}

func TestSubstitute_ReplacesReferences(t *testing.T) {
	tests := []struct {
		name   string
		node   ast.Node
		values map[string]any
		want   ast.Node
	}{
		{
			name:   "string value",
			node:   ast.FieldRef{Name: "status"},
			values: map[string]any{"[status]": "2"},
			want:   ast.String("2"),
		},
		{
			name:   "int value",
			node:   ast.FieldRef{Name: "age"},
			values: map[string]any{"[age]": 20},
			want:   ast.Number(20),
		},
		{
			name:   "checkbox value is boolean",
			node:   ast.FieldRef{Name: "race", CheckOption: "2"},
			values: map[string]any{"[race(2)]": true},
			want:   ast.Bool(true),
		},
		{
			name:   "event-qualified value",
			node:   ast.FieldRef{Name: "age", Event: "baseline"},
			values: map[string]any{"[baseline][age]": 64.5},
			want:   ast.Number(64.5),
		},
		{
			name:   "missing field becomes empty literal",
			node:   ast.FieldRef{Name: "ghost"},
			values: nil,
			want:   ast.Empty(),
		},
		{
			name:   "nil value becomes empty literal",
			node:   ast.FieldRef{Name: "blank"},
			values: map[string]any{"[blank]": nil},
			want:   ast.Empty(),
		},
		{
			name:   "literal passes through",
			node:   ast.Number(18),
			values: nil,
			want:   ast.Number(18),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Substitute(tt.node, &mapProvider{values: tt.values})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Substitute() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSubstitute_PreservesShape(t *testing.T) {
	tree := &ast.Expr{Op: ast.OpAnd, Operands: []ast.Node{
		&ast.Expr{Op: ast.OpGt, Operands: []ast.Node{
			ast.FieldRef{Name: "age"},
			ast.Number(18),
		}},
		&ast.Expr{Op: ast.OpEq, Operands: []ast.Node{
			ast.FieldRef{Name: "sex"},
			ast.String("1"),
		}},
	}}

	provider := &mapProvider{values: map[string]any{
		"[age]": 20,
		"[sex]": "1",
	}}
	got, err := Substitute(tree, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &ast.Expr{Op: ast.OpAnd, Operands: []ast.Node{
		&ast.Expr{Op: ast.OpGt, Operands: []ast.Node{ast.Number(20), ast.Number(18)}},
		&ast.Expr{Op: ast.OpEq, Operands: []ast.Node{ast.String("1"), ast.String("1")}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Substitute() = %#v, want %#v", got, want)
	}

	// The input tree is untouched.
	if _, ok := tree.Operands[0].(*ast.Expr).Operands[0].(ast.FieldRef); !ok {
		t.Error("Substitute mutated the input tree")
	}
}

func TestSubstitute_OneLookupPerOccurrence(t *testing.T) {
	tree := &ast.Expr{Op: ast.OpOr, Operands: []ast.Node{
		&ast.Expr{Op: ast.OpEq, Operands: []ast.Node{ast.FieldRef{Name: "a"}, ast.String("1")}},
		&ast.Expr{Op: ast.OpEq, Operands: []ast.Node{ast.FieldRef{Name: "a"}, ast.String("2")}},
		&ast.Expr{Op: ast.OpEq, Operands: []ast.Node{ast.FieldRef{Name: "b"}, ast.String("3")}},
	}}

	provider := &mapProvider{values: map[string]any{"[a]": "1", "[b]": "3"}}
	if _, err := Substitute(tree, provider); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.lookups != 3 {
		t.Errorf("lookups = %d, want 3 (one per occurrence)", provider.lookups)
	}
}

func TestSubstitute_ProviderErrorPropagates(t *testing.T) {
	broken := errors.New("connection refused")
	provider := ProviderFunc(func(name, event, checkOption string) (any, error) {
		return nil, broken
	})

	_, err := Substitute(ast.FieldRef{Name: "age"}, provider)
	if !errors.Is(err, broken) {
		t.Errorf("error = %v, want provider error to propagate unchanged", err)
	}
}

func TestSubstitute_UnsupportedValueType(t *testing.T) {
	provider := ProviderFunc(func(name, event, checkOption string) (any, error) {
		return []string{"1", "2"}, nil
	})

	_, err := Substitute(ast.FieldRef{Name: "meds"}, provider)
	if err == nil {
		t.Fatal("expected error for unsupported provider value type")
	}
}
