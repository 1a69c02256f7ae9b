package gen

import "github.com/syssam/stigen/compiler/load"

// BaseSegment is the segment appended to the table namespace and package.
// Base query units of inheritance subtypes live one segment below the table,
// next to the generic base query unit of the same table.
const BaseSegment = "Base"

// Placement tells a file writer where a generated unit belongs.
type Placement struct {
	// Namespace of the unit, joined with the separator of the target language.
	Namespace string
	// Package of the unit, always dot separated.
	Package string
	// ClassName is the unqualified class name of the unit.
	ClassName string
}

// DerivePackage returns the package of the base query unit of the target:
// the subtype package if set, else the table package (which falls back to the
// database package), followed by ".Base".
func DerivePackage(t *load.Table, target *load.Inheritance) (string, error) {
	if target == nil {
		return "", errMissingTarget("DerivePackage")
	}
	pkg := target.Package
	if pkg == "" {
		pkg = t.EffectivePackage()
	}
	return pkg + "." + BaseSegment, nil
}

// DeriveNamespace returns the namespace of the base query units of table t:
// the table namespace (which falls back to the database namespace) followed
// by sep and "Base", or "Base" alone when there is no namespace.
func DeriveNamespace(t *load.Table, sep string) string {
	if ns := t.EffectiveNamespace(); ns != "" {
		return ns + sep + BaseSegment
	}
	return BaseSegment
}

// Place computes the full placement of the target subtype query unit.
func Place(t *load.Table, target *load.Inheritance, namer Namer, sep string) (Placement, error) {
	pkg, err := DerivePackage(t, target)
	if err != nil {
		return Placement{}, err
	}
	return Placement{
		Namespace: DeriveNamespace(t, sep),
		Package:   pkg,
		ClassName: namer.SubtypeQueryClass(target),
	}, nil
}
