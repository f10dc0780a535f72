package exprbuilder

func init() {
	for _, name := range []string{"xsd_boolean", "xsd_int", "xsd_integer", "xsd_float", "xsd_double", "xsd_decimal", "xsd_datetime", "xsd_string"} {
		register(FuncSpec{Name: name, Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue, Nullable: true})
	}
}

// CastBoolean builds xsd:boolean(x).
func (b *Builder) CastBoolean(x Expr) (Expr, error) { return b.Build("xsd_boolean", x) }

// CastInt builds xsd:int(x).
func (b *Builder) CastInt(x Expr) (Expr, error) { return b.Build("xsd_int", x) }

// CastInteger builds xsd:integer(x).
func (b *Builder) CastInteger(x Expr) (Expr, error) { return b.Build("xsd_integer", x) }

// CastFloat builds xsd:float(x).
func (b *Builder) CastFloat(x Expr) (Expr, error) { return b.Build("xsd_float", x) }

// CastDouble builds xsd:double(x).
func (b *Builder) CastDouble(x Expr) (Expr, error) { return b.Build("xsd_double", x) }

// CastDecimal builds xsd:decimal(x).
func (b *Builder) CastDecimal(x Expr) (Expr, error) { return b.Build("xsd_decimal", x) }

// CastDateTime builds xsd:dateTime(x).
func (b *Builder) CastDateTime(x Expr) (Expr, error) { return b.Build("xsd_datetime", x) }

// CastString builds xsd:string(x).
func (b *Builder) CastString(x Expr) (Expr, error) { return b.Build("xsd_string", x) }
