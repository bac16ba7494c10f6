/*
Package branchlogic evaluates REDCap-style branching logic.

# Overview

branchlogic parses boolean show/hide conditions written against named
form fields and evaluates them against a record's field values. It is
the logic behind "show this question only when [age] > 18" rules on
data-entry forms.

Evaluation runs as a three-stage pipeline:

 1. Parse the logic text into an AST (grammar.CreateAST)
 2. Substitute field references with values (resolve.Substitute)
 3. Reduce the literal tree to a boolean (eval.Evaluate)

The Parse function and the Engine type run the full pipeline; the
subpackages remain usable on their own, for example to parse once and
evaluate against many records.

# Logic Syntax

	<expression>  := <conjunction> ('or' <conjunction>)*
	<conjunction> := <factor> ('and' <factor>)*
	<factor>      := '(' <expression> ')' | <comparison>
	<comparison>  := <operand> (<op> <operand>)?
	<op>          := '=' | '<>' | '<' | '<=' | '>' | '>='
	<operand>     := <field ref> | 'string' | number

Field references name a field in square brackets, optionally qualified
by a longitudinal event and a checkbox option:

	[age]                          Field value
	[visit_1_arm_1][age]           Field value on a specific event
	[race(2)]                      Checkbox: is option 2 selected?
	[visit_1_arm_1][race(2)]       Both qualifiers combined

'and' binds tighter than 'or'; parentheses override. Keywords are
case-insensitive. Comparisons do not chain: 'a < b < c' is a syntax
error.

# Value Semantics

Comparison follows REDCap's coercion rules:

  - A missing field and the literal '' both count as empty. Equality
    against '' is how logic tests for unanswered questions.
  - Empty never satisfies an ordering comparison. '' = '' is true,
    '' <> x is true for non-empty x.
  - If both sides look numeric they compare as numbers, so '9' < '10'.
    Otherwise they compare as strings.
  - Checkbox lookups produce booleans, which support only = and <>
    against the truthiness of the other side; '0' and 0 count as
    false, so [race(2)] = '0' tests "option unchecked". Ordering a
    checkbox value returns *eval.TypeError.

Empty or all-whitespace logic text is vacuously true: a field with no
branching logic is always shown.

# Basic Usage

Implement resolve.Provider (or use record.MemoryRecord) and call Parse:

	rec := record.NewMemoryRecord()
	rec.Set("age", 20)
	rec.SetCheckbox("race", "2", true)

	show, err := branchlogic.Parse("[age] > 18 and [race(2)] = '1'", rec)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(show) // true

# Engines and Observability

For logging, tracing, and metrics, build an Engine:

	engine := branchlogic.New(
	    branchlogic.WithLogger(slog.Default()),
	    branchlogic.WithSpanManager(observability.NewSpanManager()),
	    branchlogic.WithMetrics(observability.NewMetricsRecorder()),
	)
	show, err := engine.Parse(ctx, "[age] > 18", rec)

Each evaluation gets an eval ID carried through logs and spans, a
parse span with child spans per stage, and counters for evaluations,
syntax errors, and field lookups.

# Form Visibility

Given a data dictionary, compute visibility for every field at once:

	dict, err := dictionary.FromFile("dict.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	visible, err := engine.Visibility(ctx, dict, rec)
	// visible["smoker"] == true when [age] > 18 holds

# Errors

Parse returns *grammar.SyntaxError for malformed logic text (with the
byte offset of the problem), *eval.TypeError for comparisons with no
defined semantics, and provider errors unchanged. A lookup that
reports resolve.ErrNotFound is not an error; the reference becomes
empty and evaluation continues.
*/
package branchlogic
