package argspec

import (
	"github.com/merou/argspec/types"
)

// Role states how a field consumes tokens.
type Role int

const (
	// RolePositional fields consume bare tokens by declaration order.
	RolePositional Role = iota
	// RoleOption fields consume an alias token followed by a value.
	RoleOption
	// RoleFlag fields are boolean switches toggled by alias presence.
	RoleFlag
)

// String returns the role name used in diagnostics.
func (r Role) String() string {
	switch r {
	case RolePositional:
		return "positional"
	case RoleOption:
		return "option"
	case RoleFlag:
		return "flag"
	}
	return "unknown"
}

// Default wraps explicitly declared default values so that "no default
// supplied" (a nil *Default) stays distinguishable from a legitimately
// empty one. Values are raw strings and run through the same coercion
// as command-line tokens.
type Default struct {
	values []string
}

// NewDefault declares a default from one or more raw values. Container
// fields may supply several; scalars exactly one.
func NewDefault(values ...string) *Default {
	return &Default{values: values}
}

// Values returns the raw default values.
func (d *Default) Values() []string {
	return d.values
}

// FieldSpec declares one field of a schema: its canonical name, target
// type and role, plus the metadata the role supports. FieldSpecs are
// plain data; New validates them and compiles the alias table.
type FieldSpec struct {
	Name      string
	Type      *types.Descriptor
	Role      Role
	Default   *Default
	Factory   DefaultFactory
	Short     bool
	Aliases   []string
	Negators  []string
	Validator func(value any) bool
	Help      string
}

// Required reports whether the field must receive a value from the
// token stream when neither a default nor a factory can supply one.
// Flags are never required; an absent flag resolves to false.
func (f *FieldSpec) Required() bool {
	return f.Role != RoleFlag && f.Default == nil && f.Factory == nil
}

// ConfigureFieldFunc mutates a FieldSpec under construction.
type ConfigureFieldFunc func(f *FieldSpec)

// Positional declares a field consumed from bare tokens in declaration
// order.
func Positional(name string, td *types.Descriptor, configs ...ConfigureFieldFunc) *FieldSpec {
	return newField(name, td, RolePositional, configs)
}

// Option declares a named, value-bearing field.
func Option(name string, td *types.Descriptor, configs ...ConfigureFieldFunc) *FieldSpec {
	return newField(name, td, RoleOption, configs)
}

// Flag declares a boolean switch. Its type is always bool and it never
// carries a value token.
func Flag(name string, configs ...ConfigureFieldFunc) *FieldSpec {
	return newField(name, types.Of(types.Bool), RoleFlag, configs)
}

func newField(name string, td *types.Descriptor, role Role, configs []ConfigureFieldFunc) *FieldSpec {
	f := &FieldSpec{Name: name, Type: td, Role: role}
	for _, config := range configs {
		config(f)
	}
	return f
}

// WithDefault sets a literal default from raw values.
func WithDefault(values ...string) ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Default = NewDefault(values...)
	}
}

// WithFactory sets a deferred default provider, consulted only when no
// explicit value was supplied.
func WithFactory(factory DefaultFactory) ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Factory = factory
	}
}

// WithShort registers -<first character of the field name> as an alias.
func WithShort() ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Short = true
	}
}

// WithAliases registers extra alias tokens verbatim.
func WithAliases(aliases ...string) ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Aliases = append(f.Aliases, aliases...)
	}
}

// WithNegators registers tokens which set a flag to false.
func WithNegators(negators ...string) ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Negators = append(f.Negators, negators...)
	}
}

// WithValidator attaches a predicate run against the field's final
// coerced value.
func WithValidator(validator func(value any) bool) ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Validator = validator
	}
}

// WithHelp sets the help text shown for the field.
func WithHelp(help string) ConfigureFieldFunc {
	return func(f *FieldSpec) {
		f.Help = help
	}
}
