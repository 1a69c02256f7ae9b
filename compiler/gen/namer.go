package gen

import (
	"strings"

	"github.com/syssam/stigen/compiler/load"
)

// Namer names the units and constants a subtype query unit refers to.
// It is implemented by the generic query generator of each target language;
// the subtype generator only consumes it.
type Namer interface {
	// QueryClass returns the unqualified generic query class of a table.
	QueryClass(t *load.Table) string
	// SubtypeQueryClass returns the unqualified query class of a subtype.
	SubtypeQueryClass(inh *load.Inheritance) string
	// TableMapClass returns the unqualified table map class of a table.
	TableMapClass(t *load.Table) string
	// ColumnConstant returns the fully-qualified constant naming a column.
	ColumnConstant(c *load.Column) string
	// ClassKeyConstant returns the constant holding the key of a subtype.
	ClassKeyConstant(inh *load.Inheritance) string
}

// ClassKeyPrefix prefixes every generated class key constant.
const ClassKeyPrefix = "CLASSKEY_"

// DefaultNamer implements Namer with the Propel naming conventions.
type DefaultNamer struct{}

var _ Namer = DefaultNamer{}

// QueryClass returns "<PhpName>Query".
func (DefaultNamer) QueryClass(t *load.Table) string {
	return t.PhpName + "Query"
}

// SubtypeQueryClass returns "<ClassName>Query".
func (DefaultNamer) SubtypeQueryClass(inh *load.Inheritance) string {
	return inh.ClassName + "Query"
}

// TableMapClass returns "<PhpName>TableMap".
func (DefaultNamer) TableMapClass(t *load.Table) string {
	return t.PhpName + "TableMap"
}

// ColumnConstant returns "<PhpName>TableMap::COL_<NAME>".
func (n DefaultNamer) ColumnConstant(c *load.Column) string {
	return n.TableMapClass(c.Table()) + "::COL_" + strings.ToUpper(c.Name)
}

// ClassKeyConstant returns "CLASSKEY_<KEY>".
func (DefaultNamer) ClassKeyConstant(inh *load.Inheritance) string {
	return ClassKeyPrefix + inh.ConstantSuffix()
}
