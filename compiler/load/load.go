package load

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a schema file encoding.
type Format string

// Supported schema formats.
const (
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ErrInvalidSchema is matched by every Error returned from this package.
var ErrInvalidSchema = errors.New("stigen: invalid schema")

// Error describes a schema that failed to load or validate.
type Error struct {
	Table   string
	Column  string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("stigen: schema error")
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether the target is ErrInvalidSchema.
func (e *Error) Is(target error) bool { return target == ErrInvalidSchema }

// FormatOf returns the schema format implied by the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", &Error{Message: fmt.Sprintf("unsupported schema file extension %q", filepath.Ext(path))}
	}
}

// LoadFile reads, links and validates the schema file at the given path.
func LoadFile(path string) (*Database, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: "read schema file", Cause: err}
	}
	return Load(bytes.NewReader(buf), format)
}

// Load decodes a schema in the given format, links and validates it.
func Load(r io.Reader, format Format) (*Database, error) {
	db := &Database{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(db); err != nil {
			return nil, &Error{Message: "decode yaml", Cause: err}
		}
	case FormatXML:
		if err := xml.NewDecoder(r).Decode(db); err != nil {
			return nil, &Error{Message: "decode xml", Cause: err}
		}
	default:
		return nil, &Error{Message: fmt.Sprintf("unknown schema format %q", format)}
	}
	db.Link()
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

// Validate checks the constraints the generators rely on: unique table names,
// at most one discriminator per table, and non-empty keys and class names
// that are unique per table. Keys differing only by case are rejected since
// they render the same class key constant.
func (d *Database) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(d.Tables))
	for _, t := range d.Tables {
		if t.Name == "" {
			errs = append(errs, &Error{Message: "table without name"})
			continue
		}
		if _, ok := seen[t.Name]; ok {
			errs = append(errs, &Error{Table: t.Name, Message: "duplicate table name"})
		}
		seen[t.Name] = struct{}{}
		errs = append(errs, t.validate()...)
	}
	return errors.Join(errs...)
}

func (t *Table) validate() []error {
	var (
		errs []error
		disc *Column
	)
	for _, c := range t.Columns {
		if !c.IsInheritance() {
			if len(c.Inheritances) > 0 {
				errs = append(errs, &Error{Table: t.Name, Column: c.Name, Message: "subtypes declared on a column without single inheritance"})
			}
			continue
		}
		if disc != nil {
			errs = append(errs, &Error{Table: t.Name, Column: c.Name, Message: fmt.Sprintf("second discriminator column (first is %q)", disc.Name)})
			continue
		}
		disc = c
		keys := make(map[string]string, len(c.Inheritances))
		classes := make(map[string]struct{}, len(c.Inheritances))
		for _, inh := range c.Inheritances {
			switch {
			case inh.Key == "":
				errs = append(errs, &Error{Table: t.Name, Column: c.Name, Message: fmt.Sprintf("subtype %q has an empty key", inh.ClassName)})
				continue
			case inh.ClassName == "":
				errs = append(errs, &Error{Table: t.Name, Column: c.Name, Message: fmt.Sprintf("subtype with key %q has no class name", inh.Key)})
				continue
			}
			if prev, ok := keys[inh.ConstantSuffix()]; ok {
				errs = append(errs, &Error{Table: t.Name, Column: c.Name, Message: fmt.Sprintf("key %q collides with key %q", inh.Key, prev)})
			}
			keys[inh.ConstantSuffix()] = inh.Key
			if _, ok := classes[inh.ClassName]; ok {
				errs = append(errs, &Error{Table: t.Name, Column: c.Name, Message: fmt.Sprintf("duplicate subtype class %q", inh.ClassName)})
			}
			classes[inh.ClassName] = struct{}{}
		}
	}
	return errs
}
