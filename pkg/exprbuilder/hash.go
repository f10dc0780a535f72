package exprbuilder

func init() {
	for _, name := range []string{"md5", "sha1", "sha256", "sha384", "sha512"} {
		register(FuncSpec{Name: name, Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	}
}

// MD5 builds MD5(x).
func (b *Builder) MD5(x Expr) (Expr, error) { return b.Build("md5", x) }

// SHA1 builds SHA1(x).
func (b *Builder) SHA1(x Expr) (Expr, error) { return b.Build("sha1", x) }

// SHA256 builds SHA256(x).
func (b *Builder) SHA256(x Expr) (Expr, error) { return b.Build("sha256", x) }

// SHA384 builds SHA384(x).
func (b *Builder) SHA384(x Expr) (Expr, error) { return b.Build("sha384", x) }

// SHA512 builds SHA512(x).
func (b *Builder) SHA512(x Expr) (Expr, error) { return b.Build("sha512", x) }
