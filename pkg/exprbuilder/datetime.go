package exprbuilder

func init() {
	for _, name := range []string{"year", "month", "day", "hours", "minutes", "seconds", "timezone", "tz"} {
		register(FuncSpec{Name: name, Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue, Nullable: true})
	}
}

// Year builds YEAR(x).
func (b *Builder) Year(x Expr) (Expr, error) { return b.Build("year", x) }

// Month builds MONTH(x).
func (b *Builder) Month(x Expr) (Expr, error) { return b.Build("month", x) }

// Day builds DAY(x).
func (b *Builder) Day(x Expr) (Expr, error) { return b.Build("day", x) }

// Hours builds HOURS(x).
func (b *Builder) Hours(x Expr) (Expr, error) { return b.Build("hours", x) }

// Minutes builds MINUTES(x).
func (b *Builder) Minutes(x Expr) (Expr, error) { return b.Build("minutes", x) }

// Seconds builds SECONDS(x).
func (b *Builder) Seconds(x Expr) (Expr, error) { return b.Build("seconds", x) }

// Timezone builds TIMEZONE(x): the duration-typed zone offset.
func (b *Builder) Timezone(x Expr) (Expr, error) { return b.Build("timezone", x) }

// Tz builds TZ(x): the zone's simple string form ("", "Z", "+01:00", ...).
func (b *Builder) Tz(x Expr) (Expr, error) { return b.Build("tz", x) }
