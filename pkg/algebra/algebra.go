// Package algebra defines the SPARQL algebra tree pkg/rewrite consumes
// (§2, §4.8): the external contract a (now out-of-scope) parser would hand
// this core, adapted from the teacher's surface-syntax AST
// (internal/sparql/parser/ast.go) down to algebra-level operators.
package algebra

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// Node is one SPARQL algebra operator.
type Node interface {
	algebraNode()
}

// TriplePattern is one (subject, predicate, object) pattern; a nil field
// means that position is a wildcard, Variable non-empty means a variable
// binds that position, and a non-nil Term means a bound constant.
type TriplePattern struct {
	Subject, Predicate, Object TermOrVar
}

// TermOrVar is either a bound term or a variable reference.
type TermOrVar struct {
	Term     rdf.Term
	Variable string // "" if Term is set
}

func Bound(t rdf.Term) TermOrVar  { return TermOrVar{Term: t} }
func Var(name string) TermOrVar   { return TermOrVar{Variable: name} }

func (t TermOrVar) IsVariable() bool { return t.Variable != "" }

// BGP is a basic graph pattern: a conjunction of triple patterns.
type BGP struct{ Patterns []TriplePattern }

func (*BGP) algebraNode() {}

// Join is algebra Join: both sides must share compatible bindings.
type Join struct{ Left, Right Node }

func (*Join) algebraNode() {}

// LeftJoin is algebra LeftJoin (OPTIONAL), with an optional join filter.
type LeftJoin struct {
	Left, Right Node
	Filter      Expression // nil if none
}

func (*LeftJoin) algebraNode() {}

// Filter restricts Input to rows where Expr's effective boolean value is
// true.
type Filter struct {
	Input Node
	Expr  Expression
}

func (*Filter) algebraNode() {}

// Extend is algebra Extend (BIND): adds Variable = Expr to every row.
type Extend struct {
	Input    Node
	Variable string
	Expr     Expression
}

func (*Extend) algebraNode() {}

// Union is algebra Union.
type Union struct{ Left, Right Node }

func (*Union) algebraNode() {}

// Minus is algebra Minus.
type Minus struct{ Left, Right Node }

func (*Minus) algebraNode() {}

// Graph is algebra Graph: GRAPH <iri> { ... } or GRAPH ?g { ... }.
type Graph struct {
	Input    Node
	Name     rdf.Term // set for GRAPH <iri>
	Variable string   // set for GRAPH ?g
}

func (*Graph) algebraNode() {}

// Path is algebra Path: a property-path pattern.
type Path struct {
	Subject, Object TermOrVar
	Expr            PathExpr
}

func (*Path) algebraNode() {}

// PathExprKind discriminates a PathExpr's shape.
type PathExprKind int

const (
	PathPredicate PathExprKind = iota
	PathInverse
	PathSequence
	PathAlternative
	PathNegatedSet
	PathZeroOrMore
	PathOneOrMore
	PathZeroOrOne
)

// PathExpr is a SPARQL property-path expression (§4.9.1's grammar).
type PathExpr struct {
	Kind     PathExprKind
	Pred     rdf.Term   // PathPredicate
	Negated  []rdf.Term // PathNegatedSet
	Sub      *PathExpr  // PathInverse, PathZeroOrMore, PathOneOrMore, PathZeroOrOne
	Children []PathExpr // PathSequence, PathAlternative
}

// Values is algebra Values: an inline constant table.
type Values struct {
	Variables []string
	Rows      [][]rdf.Term // nil entry = UNDEF
}

func (*Values) algebraNode() {}

// OrderCondition is one ORDER BY key.
type OrderCondition struct {
	Expr       Expression
	Descending bool
}

// OrderBy is algebra OrderBy.
type OrderBy struct {
	Input      Node
	Conditions []OrderCondition
}

func (*OrderBy) algebraNode() {}

// Slice is algebra Slice (LIMIT/OFFSET).
type Slice struct {
	Input  Node
	Offset int
	Limit  int // -1 means unbounded
}

func (*Slice) algebraNode() {}

// Distinct is algebra Distinct.
type Distinct struct{ Input Node }

func (*Distinct) algebraNode() {}

// Reduced is algebra Reduced.
type Reduced struct{ Input Node }

func (*Reduced) algebraNode() {}

// AggregateExpr is one aggregate binding in a Group node.
type AggregateExpr struct {
	Variable  string
	Func      string
	Arg       Expression // nil for COUNT(*)
	Distinct  bool
	Separator string
}

// Group is algebra Group (GROUP BY).
type Group struct {
	Input      Node
	GroupVars  []string
	Aggregates []AggregateExpr
}

func (*Group) algebraNode() {}

// Ask is algebra Ask: a boolean reduction of Input's non-emptiness.
type Ask struct{ Input Node }

func (*Ask) algebraNode() {}

// Expression is a SPARQL algebra-level expression, rewritten recursively
// into pkg/exprbuilder calls (§4.8's "Expressions").
type Expression interface {
	expressionNode()
}

// ExprVariable references a variable.
type ExprVariable struct{ Name string }

func (*ExprVariable) expressionNode() {}

// ExprLiteral is a constant term.
type ExprLiteral struct{ Term rdf.Term }

func (*ExprLiteral) expressionNode() {}

// ExprCall is a function call, covering every §4.6 builtin plus the
// operators a surface grammar would otherwise give their own node types
// (trigo's `ast.go` Operator enum collapses the same way here: AND, OR,
// comparisons, and arithmetic are all just named function calls at the
// algebra level).
type ExprCall struct {
	Func string
	Args []Expression
}

func (*ExprCall) expressionNode() {}

// ExprExists lowers EXISTS { pattern } to a correlated-subquery check
// against Pattern (§4.8).
type ExprExists struct {
	Pattern Node
	Negated bool // true for NOT EXISTS
}

func (*ExprExists) expressionNode() {}
