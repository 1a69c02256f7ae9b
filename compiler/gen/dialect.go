package gen

// Renderer turns units into source text for one target language.
//
// Renderers receive fully resolved units: the ancestor, placement, class key
// condition and declaration order are decided before Render is called.
// Implementations must be safe for concurrent use.
//
// Usage:
//
//	import "github.com/syssam/stigen/compiler/gen/php"
//
//	g := gen.NewGenerator(config, php.New())
//	out, err := g.Generate(ctx, table, subtype)
type Renderer interface {
	// Name returns the renderer name (e.g., "php", "go").
	Name() string
	// Extension returns the file extension of rendered units, with the dot.
	Extension() string
	// NamespaceSeparator joins namespace segments in the target language.
	NamespaceSeparator() string
	// Namer names the units and constants referenced by rendered units.
	Namer() Namer
	// Render returns the source text of the unit.
	Render(u *Unit) ([]byte, error)
}
