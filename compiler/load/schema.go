package load

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// InheritanceSingle marks a column as the discriminator of a single table
// inheritance tree.
const InheritanceSingle = "single"

// Database represents a loaded schema database. Tables are kept in
// declaration order and are unique by name.
type Database struct {
	Name      string   `yaml:"name" xml:"name,attr"`
	Namespace string   `yaml:"namespace,omitempty" xml:"namespace,attr,omitempty"`
	Package   string   `yaml:"package,omitempty" xml:"package,attr,omitempty"`
	Tables    []*Table `yaml:"tables" xml:"table"`

	tables  map[string]*Table
	phpName map[string]*Table
}

// Table represents a loaded table of a Database.
type Table struct {
	Name        string    `yaml:"name" xml:"name,attr"`
	PhpName     string    `yaml:"phpName,omitempty" xml:"phpName,attr,omitempty"`
	Description string    `yaml:"description,omitempty" xml:"description,attr,omitempty"`
	Namespace   string    `yaml:"namespace,omitempty" xml:"namespace,attr,omitempty"`
	Package     string    `yaml:"package,omitempty" xml:"package,attr,omitempty"`
	Columns     []*Column `yaml:"columns" xml:"column"`

	db *Database
}

// Column represents a loaded table column.
type Column struct {
	Name            string         `yaml:"name" xml:"name,attr"`
	PhpName         string         `yaml:"phpName,omitempty" xml:"phpName,attr,omitempty"`
	Type            string         `yaml:"type,omitempty" xml:"type,attr,omitempty"`
	InheritanceType string         `yaml:"inheritance,omitempty" xml:"inheritance,attr,omitempty"`
	Inheritances    []*Inheritance `yaml:"children,omitempty" xml:"inheritance"`

	table *Table
}

// Inheritance describes one discriminator value of a single table
// inheritance tree, that is one subtype persisted in the owning table.
type Inheritance struct {
	// Key is the discriminator value stored in the class key column.
	Key string `yaml:"key" xml:"key,attr"`
	// ClassName is the generated class identifier of the subtype.
	ClassName string `yaml:"class" xml:"class,attr"`
	// Extends optionally names the class the subtype derives from. It may name
	// a table of the same database or a sibling subtype. Empty means the
	// owning table.
	Extends string `yaml:"extends,omitempty" xml:"extends,attr,omitempty"`
	// Package optionally overrides the package of the owning table.
	Package string `yaml:"package,omitempty" xml:"package,attr,omitempty"`

	column *Column
}

// Link sets the back references between the schema objects, derives missing
// PHP names and indexes the tables. It must be called after the Database is
// built or decoded and before it is used.
func (d *Database) Link() {
	d.tables = make(map[string]*Table, len(d.Tables))
	d.phpName = make(map[string]*Table, len(d.Tables))
	for _, t := range d.Tables {
		t.db = d
		if t.PhpName == "" {
			t.PhpName = inflect.Camelize(t.Name)
		}
		for _, c := range t.Columns {
			c.table = t
			if c.PhpName == "" {
				c.PhpName = inflect.Camelize(strings.ToLower(c.Name))
			}
			for _, inh := range c.Inheritances {
				inh.column = c
			}
		}
		if _, ok := d.tables[t.Name]; !ok {
			d.tables[t.Name] = t
		}
		if _, ok := d.phpName[t.PhpName]; !ok {
			d.phpName[t.PhpName] = t
		}
	}
}

// TableByName returns the table with the given SQL name.
func (d *Database) TableByName(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// TableByPhpName returns the table with the given PHP class name.
func (d *Database) TableByPhpName(name string) (*Table, bool) {
	t, ok := d.phpName[name]
	return t, ok
}

// InheritanceTables returns the tables that declare a discriminator column
// with at least one subtype, in declaration order.
func (d *Database) InheritanceTables() []*Table {
	var tables []*Table
	for _, t := range d.Tables {
		if c := t.ChildrenColumn(); c != nil && len(c.Inheritances) > 0 {
			tables = append(tables, t)
		}
	}
	return tables
}

// Database returns the database owning the table.
func (t *Table) Database() *Database { return t.db }

// ChildrenColumn returns the discriminator column of the table, or nil if the
// table does not use single table inheritance.
func (t *Table) ChildrenColumn() *Column {
	for _, c := range t.Columns {
		if c.IsInheritance() {
			return c
		}
	}
	return nil
}

// Children returns the subtypes declared on the discriminator column.
func (t *Table) Children() []*Inheritance {
	if c := t.ChildrenColumn(); c != nil {
		return c.Inheritances
	}
	return nil
}

// EffectiveNamespace returns the table namespace, falling back to the
// namespace of the database.
func (t *Table) EffectiveNamespace() string {
	if t.Namespace != "" || t.db == nil {
		return t.Namespace
	}
	return t.db.Namespace
}

// EffectivePackage returns the table package, falling back to the package of
// the database.
func (t *Table) EffectivePackage() string {
	if t.Package != "" || t.db == nil {
		return t.Package
	}
	return t.db.Package
}

// Table returns the table owning the column.
func (c *Column) Table() *Table { return c.table }

// IsInheritance reports if the column is the discriminator of a single table
// inheritance tree.
func (c *Column) IsInheritance() bool {
	return strings.EqualFold(c.InheritanceType, InheritanceSingle)
}

// Column returns the discriminator column the subtype belongs to.
func (i *Inheritance) Column() *Column { return i.column }

// Table returns the table persisting the subtype.
func (i *Inheritance) Table() *Table {
	if i.column == nil {
		return nil
	}
	return i.column.table
}

// ConstantSuffix returns the uppercased key used as suffix of the generated
// class key constant. For example, "admin" yields "ADMIN".
func (i *Inheritance) ConstantSuffix() string {
	return strings.ToUpper(i.Key)
}

// AncestorClassName returns the declared ancestor without any namespace or
// package qualifier. For example, `\App\Model\Book` and `app.model.Book`
// both yield "Book".
func (i *Inheritance) AncestorClassName() string {
	return Classname(i.Extends)
}

// Classname strips namespace and package qualifiers from a class reference.
func Classname(ref string) string {
	if idx := strings.LastIndexAny(ref, `\.`); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
