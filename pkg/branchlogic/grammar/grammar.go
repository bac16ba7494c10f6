// Package grammar defines the branching-logic grammar and builds ASTs
// from source text.
//
// The grammar is a hand-written recursive-descent parser with one
// method per precedence tier (lowest to highest):
//
//	expression := conjunction { 'or' conjunction }
//	conjunction := factor { 'and' factor }
//	factor      := '(' expression ')' | comparison
//	comparison  := operand [ op operand ]
//	op          := '=' | '<>' | '<' | '<=' | '>' | '>='
//	operand     := string | number | reference
//	reference   := [ '[' ident ']' ] '[' ident [ '(' code ')' ] ']'
//
// 'and'/'or' are case-insensitive. Chains at one logical tier are
// flattened into a single operator node, so 'a and b and c' has three
// operands. The comparison tier is non-associative: 'a < b < c' is a
// syntax error.
package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/ast"
)

// SyntaxError reports text that does not conform to the grammar.
// Pos is a byte offset into the input.
type SyntaxError struct {
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

// Grammar is the branching-logic grammar. It is immutable and
// stateless: one Grammar may parse many independent strings
// concurrently, and separate Grammars are equivalent.
type Grammar struct{}

// New returns the branching-logic grammar.
func New() *Grammar { return &Grammar{} }

// defaultGrammar backs the package-level CreateAST.
var defaultGrammar = New()

// CreateAST parses text using the default grammar.
func CreateAST(text string) (ast.Node, error) {
	return defaultGrammar.CreateAST(text)
}

// CreateAST tokenizes and parses text into an AST. Field references
// become ast.FieldRef leaves (not yet resolved) and literal tokens
// become ast.Literal leaves.
//
// Empty or whitespace-only text yields the literal true: absent
// branching logic means the field is always shown.
//
// The whole input must be consumed; otherwise CreateAST returns a
// *SyntaxError identifying the offending position.
func (g *Grammar) CreateAST(text string) (ast.Node, error) {
	if strings.TrimSpace(text) == "" {
		return ast.Bool(true), nil
	}

	p := &parser{lex: newLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, &SyntaxError{
			Pos: p.tok.pos,
			Msg: fmt.Sprintf("unexpected %q after expression", p.tok.text),
		}
	}
	return node, nil
}

// parser holds the state of a single CreateAST invocation. A fresh
// parser is created per call, which is what keeps Grammar re-entrant.
type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseExpression parses the 'or' tier.
func (p *parser) parseExpression() (ast.Node, error) {
	first, err := p.parseConjunction()
	if err != nil {
		return nil, err
	}
	operands := []ast.Node{first}
	for p.tok.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseConjunction()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return &ast.Expr{Op: ast.OpOr, Operands: operands}, nil
}

// parseConjunction parses the 'and' tier.
func (p *parser) parseConjunction() (ast.Node, error) {
	first, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	operands := []ast.Node{first}
	for p.tok.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return &ast.Expr{Op: ast.OpAnd, Operands: operands}, nil
}

// parseFactor parses a parenthesized sub-expression or a comparison
// term. Grouping lives at this tier, which guarantees comparison
// operands are always plain values or field references.
func (p *parser) parseFactor() (ast.Node, error) {
	if p.tok.kind == tokLParen {
		open := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, &SyntaxError{Pos: open, Msg: "missing closing parenthesis"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseComparison()
}

// parseComparison parses an operand optionally followed by exactly one
// comparison operator and a second operand.
func (p *parser) parseComparison() (ast.Node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOp(p.tok.kind)
	if !ok {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Op: op, Operands: []ast.Node{left, right}}, nil
}

func comparisonOp(kind tokenKind) (ast.Op, bool) {
	switch kind {
	case tokEq:
		return ast.OpEq, true
	case tokNeq:
		return ast.OpNeq, true
	case tokLT:
		return ast.OpLt, true
	case tokLTE:
		return ast.OpLte, true
	case tokGT:
		return ast.OpGt, true
	case tokGTE:
		return ast.OpGte, true
	}
	return 0, false
}

// parseOperand parses a quoted string, a number, or a field reference.
func (p *parser) parseOperand() (ast.Node, error) {
	switch p.tok.kind {
	case tokString:
		lit := ast.String(p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil
	case tokNumber:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			// The lexer only emits well-formed numbers.
			return nil, &SyntaxError{Pos: p.tok.pos, Msg: "malformed number"}
		}
		lit := ast.Number(f)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil
	case tokLBracket:
		return p.parseFieldRef()
	case tokEOF:
		return nil, &SyntaxError{Pos: p.tok.pos, Msg: "missing operand"}
	default:
		return nil, &SyntaxError{
			Pos: p.tok.pos,
			Msg: fmt.Sprintf("unexpected %q, expected a value or field reference", p.tok.text),
		}
	}
}

// parseFieldRef parses [name], [event][name], [name(option)], or
// [event][name(option)].
func (p *parser) parseFieldRef() (ast.Node, error) {
	name, option, err := p.parseBracketGroup()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokLBracket {
		return ast.FieldRef{Name: name, CheckOption: option}, nil
	}

	// Two bracket groups: the first was the event qualifier.
	if option != "" {
		return nil, &SyntaxError{
			Pos: p.tok.pos,
			Msg: "checkbox option not allowed on event qualifier",
		}
	}
	fieldName, fieldOption, err := p.parseBracketGroup()
	if err != nil {
		return nil, err
	}
	return ast.FieldRef{Name: fieldName, Event: name, CheckOption: fieldOption}, nil
}

// parseBracketGroup parses one '[' ident [ '(' code ')' ] ']' group.
func (p *parser) parseBracketGroup() (name, option string, err error) {
	open := p.tok.pos
	if err := p.advance(); err != nil { // consume '['
		return "", "", err
	}
	if p.tok.kind != tokIdent {
		return "", "", &SyntaxError{Pos: p.tok.pos, Msg: "expected field name after '['"}
	}
	name = p.tok.text
	if err := p.advance(); err != nil {
		return "", "", err
	}

	if p.tok.kind == tokLParen {
		if err := p.advance(); err != nil {
			return "", "", err
		}
		if p.tok.kind != tokIdent && p.tok.kind != tokNumber {
			return "", "", &SyntaxError{Pos: p.tok.pos, Msg: "expected checkbox option code"}
		}
		option = p.tok.text
		if err := p.advance(); err != nil {
			return "", "", err
		}
		if p.tok.kind != tokRParen {
			return "", "", &SyntaxError{Pos: p.tok.pos, Msg: "missing closing parenthesis in checkbox option"}
		}
		if err := p.advance(); err != nil {
			return "", "", err
		}
	}

	if p.tok.kind != tokRBracket {
		return "", "", &SyntaxError{Pos: open, Msg: "missing closing bracket in field reference"}
	}
	if err := p.advance(); err != nil {
		return "", "", err
	}
	return name, option, nil
}
