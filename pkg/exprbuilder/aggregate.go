package exprbuilder

// Aggregate is a GROUP BY aggregate expression (§4.6): distinct from Expr
// because aggregates carry a DISTINCT flag, an optional GROUP_CONCAT
// separator, and COUNT(*)'s argument-less form, none of which fit the
// scalar Build pipeline.
type Aggregate struct {
	Func      string
	Arg       *Expr // nil for COUNT(*)
	Distinct  bool
	Separator string // GROUP_CONCAT only; "" means the SPARQL default (a space)
	Output    Encoding
}

// Count builds COUNT(arg) or COUNT(DISTINCT arg).
func (b *Builder) Count(arg Expr, distinct bool) Aggregate {
	return Aggregate{Func: "count", Arg: &arg, Distinct: distinct, Output: EncTypedValue}
}

// CountStar builds COUNT(*): the number of input rows, argument-less.
func (b *Builder) CountStar() Aggregate {
	return Aggregate{Func: "count", Output: EncTypedValue}
}

// Sum builds SUM(arg).
func (b *Builder) Sum(arg Expr, distinct bool) Aggregate {
	return Aggregate{Func: "sum", Arg: &arg, Distinct: distinct, Output: EncTypedValue}
}

// Avg builds AVG(arg).
func (b *Builder) Avg(arg Expr, distinct bool) Aggregate {
	return Aggregate{Func: "avg", Arg: &arg, Distinct: distinct, Output: EncTypedValue}
}

// Min builds MIN(arg).
func (b *Builder) Min(arg Expr, distinct bool) Aggregate {
	return Aggregate{Func: "min", Arg: &arg, Distinct: distinct, Output: EncTypedValue}
}

// Max builds MAX(arg).
func (b *Builder) Max(arg Expr, distinct bool) Aggregate {
	return Aggregate{Func: "max", Arg: &arg, Distinct: distinct, Output: EncTypedValue}
}

// Sample builds SAMPLE(arg): an arbitrary bound value from the group.
func (b *Builder) Sample(arg Expr) Aggregate {
	return Aggregate{Func: "sample", Arg: &arg, Output: EncTypedValue}
}

// GroupConcat builds GROUP_CONCAT(arg[; SEPARATOR=sep]).
func (b *Builder) GroupConcat(arg Expr, distinct bool, separator string) Aggregate {
	return Aggregate{Func: "group_concat", Arg: &arg, Distinct: distinct, Separator: separator, Output: EncTypedValue}
}
