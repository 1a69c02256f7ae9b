package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema that cannot be generated from.
	ErrInvalidSchema = errors.New("stigen: invalid schema")
	// ErrMissingConfig indicates a configuration or usage error.
	ErrMissingConfig = errors.New("stigen: missing configuration")
	// ErrMissingTarget indicates that no target subtype was given to generate for.
	ErrMissingTarget = errors.New("stigen: missing target subtype")
	// ErrUnresolvedAncestor indicates a declared ancestor that matches neither
	// a table nor a sibling subtype.
	ErrUnresolvedAncestor = errors.New("stigen: unresolved ancestor")
	// ErrCyclicInheritance indicates subtypes that derive from each other.
	ErrCyclicInheritance = errors.New("stigen: cyclic inheritance")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("stigen: code generation failed")
)

// SchemaError represents a schema the generator cannot work with.
type SchemaError struct {
	Table   string
	Subtype string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("stigen: schema error")
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Subtype != "" {
		b.WriteString(" subtype ")
		b.WriteString(e.Subtype)
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
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(table, subtype, message string, cause error) *SchemaError {
	return &SchemaError{
		Table:   table,
		Subtype: subtype,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
	// sentinel overrides ErrMissingConfig for usage errors such as a
	// missing target.
	sentinel error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("stigen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("stigen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig || (e.sentinel != nil && target == e.sentinel)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// errMissingTarget is returned by every operation called with a nil subtype.
func errMissingTarget(op string) *ConfigError {
	return &ConfigError{
		Option:   "Target",
		Message:  op + " needs to be told which subtype to build; pass a non-nil *load.Inheritance",
		sentinel: ErrMissingTarget,
	}
}

// HierarchyKind classifies a HierarchyError.
type HierarchyKind int

// Hierarchy error kinds.
const (
	// HierarchyUnresolved is an ancestor name that matches nothing.
	HierarchyUnresolved HierarchyKind = iota + 1
	// HierarchyCycle is a chain of subtypes deriving from each other.
	HierarchyCycle
)

// HierarchyError represents an inheritance graph that cannot be resolved.
type HierarchyError struct {
	Kind    HierarchyKind
	Table   string
	Subtype string
	// Ancestor is the unresolved ancestor name.
	Ancestor string
	// Path holds the class names forming the cycle, first and last equal.
	Path []string
}

// Error implements the error interface.
func (e *HierarchyError) Error() string {
	switch e.Kind {
	case HierarchyCycle:
		return fmt.Sprintf("stigen: cyclic inheritance on table %s: %s", e.Table, strings.Join(e.Path, " -> "))
	default:
		return fmt.Sprintf("stigen: subtype %s of table %s extends %q which is neither a table nor a sibling subtype", e.Subtype, e.Table, e.Ancestor)
	}
}

// Is reports whether the target matches the sentinel error for the kind.
func (e *HierarchyError) Is(target error) bool {
	switch e.Kind {
	case HierarchyCycle:
		return target == ErrCyclicInheritance || target == ErrInvalidSchema
	case HierarchyUnresolved:
		return target == ErrUnresolvedAncestor || target == ErrInvalidSchema
	}
	return false
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "resolve", "build", "render", "write".
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("stigen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
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
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsHierarchyError reports whether the error is a HierarchyError.
func IsHierarchyError(err error) bool {
	var hierErr *HierarchyError
	return errors.As(err, &hierErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
