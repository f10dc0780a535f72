package exprbuilder

// Arithmetic is checked at execution time (division by zero, overflow per
// FOAR0001/FOAR0002); the builder only needs to mark the result nullable
// since a checked failure propagates as the §7 ExpectedError null, not a
// build-time error.
func init() {
	register(FuncSpec{Name: "add", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue, Nullable: true})
	register(FuncSpec{Name: "sub", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue, Nullable: true})
	register(FuncSpec{Name: "mul", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue, Nullable: true})
	register(FuncSpec{Name: "div", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue, Nullable: true})
}

// Add builds a + b with numeric promotion.
func (b *Builder) Add(x, y Expr) (Expr, error) { return b.Build("add", x, y) }

// Sub builds a - b.
func (b *Builder) Sub(x, y Expr) (Expr, error) { return b.Build("sub", x, y) }

// Mul builds a * b.
func (b *Builder) Mul(x, y Expr) (Expr, error) { return b.Build("mul", x, y) }

// Div builds a / b; a zero divisor yields a runtime-checked null, per
// FOAR0001.
func (b *Builder) Div(x, y Expr) (Expr, error) { return b.Build("div", x, y) }
