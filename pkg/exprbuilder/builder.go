package exprbuilder

import "fmt"

// FuncSpec describes one SPARQL builtin's arity and encoding contract
// (§4.6's "every function declares the set of encodings it accepts").
type FuncSpec struct {
	Name      string
	Arity     func(n int) bool
	Accepts   []Encoding // preference order: first shared encoding wins, else Accepts[0] is the reencode target
	Output    Encoding
	Nullable  bool
	IsBoolean bool
}

var registry = map[string]FuncSpec{}

// register adds fn to the global builtin table. Each function-family file
// calls this from its own init().
func register(spec FuncSpec) {
	registry[spec.Name] = spec
}

// Register adds an externally defined builtin to the global table. It
// exists so pkg/rewrite can register plan-correlated UDFs (EXISTS, NOT
// EXISTS) that this package has no business knowing the shape of.
func Register(spec FuncSpec) {
	register(spec)
}

func errUnknownVariable(name string) error {
	return fmt.Errorf("exprbuilder: unknown variable %q", name)
}

func errUnknownFunction(name string) error {
	return fmt.Errorf("exprbuilder: unknown function %q", name)
}

func errArity(name string, n int) error {
	return fmt.Errorf("%s: wrong number of arguments (%d)", name, n)
}

// Builder builds expression trees against a fixed input schema (variable
// name -> its current column encoding).
type Builder struct {
	schema map[string]Encoding
}

// NewBuilder constructs a Builder over the given input schema.
func NewBuilder(schema map[string]Encoding) *Builder {
	cp := make(map[string]Encoding, len(schema))
	for k, v := range schema {
		cp[k] = v
	}
	return &Builder{schema: cp}
}

// commonEncoding returns the encoding every arg already shares, if any.
func commonEncoding(args []Expr) (Encoding, bool) {
	if len(args) == 0 {
		return 0, false
	}
	enc := args[0].Encoding
	for _, a := range args[1:] {
		if a.Encoding != enc {
			return 0, false
		}
	}
	return enc, true
}

func accepts(spec FuncSpec, enc Encoding) bool {
	for _, e := range spec.Accepts {
		if e == enc {
			return true
		}
	}
	return false
}

// reencode wraps arg in a Reencode node targeting enc. Builders never fail
// to reencode between the four encodings here (every encoding has a total
// conversion per §3.2's totality table); the conversion itself runs at
// physical-execution time, out of this package's scope.
func reencode(arg Expr, enc Encoding) Expr {
	if arg.Encoding == enc {
		return arg
	}
	return Expr{
		Kind:     KindReencode,
		Encoding: enc,
		Nullable: arg.Nullable,
		Func:     fmt.Sprintf("to_%s", enc),
		Args:     []Expr{arg},
	}
}

// Build is the encoding-alignment entry point of §4.6: it selects the
// function's accepted encoding every argument already shares; if none
// matches, every argument is reencoded to Accepts[0] (preferring TypedValue
// for arithmetic/strings, PlainTerm for identity/equality, Sortable only for
// order_by/distinct_on key expressions — each family's Accepts list encodes
// that preference already).
func (b *Builder) Build(fn string, args ...Expr) (Expr, error) {
	spec, ok := registry[fn]
	if !ok {
		return Expr{}, errUnknownFunction(fn)
	}
	if spec.Arity != nil && !spec.Arity(len(args)) {
		return Expr{}, errArity(fn, len(args))
	}

	target := spec.Output
	aligned := args
	if len(spec.Accepts) > 0 {
		shared, ok := commonEncoding(args)
		chosen := spec.Accepts[0]
		if ok && accepts(spec, shared) {
			chosen = shared
		}
		aligned = make([]Expr, len(args))
		for i, a := range args {
			aligned[i] = reencode(a, chosen)
		}
	}

	nullable := spec.Nullable
	for _, a := range aligned {
		nullable = nullable || a.Nullable
	}

	return Expr{
		Kind:      KindCall,
		Encoding:  target,
		Nullable:  nullable,
		IsBoolean: spec.IsBoolean,
		Func:      fn,
		Args:      aligned,
	}, nil
}

// EBV implements the effective_boolean_value rule of §4.6: filter(expr) on
// a non-boolean expression wraps it in the effective_boolean_value UDF,
// which yields false for a null term; an already-boolean expression passes
// through unchanged.
func (b *Builder) EBV(expr Expr) Expr {
	if expr.IsBoolean {
		return expr
	}
	return Expr{
		Kind:      KindCall,
		Encoding:  expr.Encoding,
		IsBoolean: true,
		Func:      "effective_boolean_value",
		Args:      []Expr{expr},
	}
}
