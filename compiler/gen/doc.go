// Package gen generates the base query units of single table inheritance
// subtypes.
//
// A table declaring a discriminator column lists subtypes, each identified by
// a key stored in that column and a class name. Every subtype gets a query
// unit that derives from the query unit of its ancestor and restricts every
// select, update and delete to the rows holding its key.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Schema file (YAML or XML)
//	        ↓
//	   load.Database (tables, columns, subtypes)
//	        ↓
//	   Hierarchy (ancestor of every subtype, acyclic)
//	        ↓
//	   Unit (placement, header, class key condition, declarations)
//	        ↓
//	   Renderer (PHP or Go source)
//	        ↓
//	   Writer (namespace mirrored as directories)
//
// # Ancestors
//
// The ancestor of a subtype is resolved in this order:
//
//   - no declared ancestor: the generic query unit of the table.
//   - a table of the database with that name: its generic query unit.
//   - a sibling subtype with that class name: the sibling's query unit.
//
// Anything else fails with ErrUnresolvedAncestor, and subtypes deriving from
// each other fail with ErrCyclicInheritance. Every generation builds the
// Hierarchy of the table first, so a single Generate call fails on a cycle
// elsewhere in the table as GenerateAll does.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: schema the generator cannot work with, such as two keys
//     rendering the same class key constant
//   - ConfigError: configuration or usage errors, including a missing target
//   - HierarchyError: unresolved ancestors and cycles
//   - GenerationError: render and write failures
//
// Example error handling:
//
//	out, err := g.Generate(ctx, table, subtype)
//	if errors.Is(err, gen.ErrMissingTarget) {
//	    // No subtype was given.
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./generated"),
//	    gen.WithTimestamp(true),
//	    gen.WithHeader("// Code generated by stigen."),
//	)
//
// # Usage
//
//	g := gen.NewGenerator(config, php.New())
//	outs, err := g.GenerateAll(ctx, db)
//	if err != nil {
//	    return err
//	}
//	w, err := gen.NewWriter(config, g.Renderer())
//	if err != nil {
//	    return err
//	}
//	err = w.WriteAll(ctx, outs)
package gen
