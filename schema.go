package argspec

import (
	"io"
	"os"

	"github.com/iancoleman/strcase"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// aliasRef resolves one alias token to the field that claimed it.
// negate marks negator aliases, which set a flag to false.
type aliasRef struct {
	name   string
	negate bool
}

// fieldTokens holds the resolved token forms of one field, in the order
// help output presents them.
type fieldTokens struct {
	canonical string
	positives []string
	negators  []string
}

// Schema is the compiled, queryable form of an ordered field list.
// It is immutable after New (apart from the writer and program-name
// setters, which are meant to be called once before use) and safe to
// share across any number of concurrent Parse calls.
type Schema struct {
	fields  *orderedmap.OrderedMap[string, *FieldSpec]
	aliases map[string]aliasRef
	tokens  map[string]*fieldTokens
	prog    string
	out     io.Writer
}

// New compiles an ordered field list into a Schema. It returns a
// *SpecError when the list is structurally invalid: duplicate alias
// tokens, more than one unbounded positional field, a field carrying
// both a default and a factory, or role metadata the role does not
// support.
func New(fields ...*FieldSpec) (*Schema, error) {
	s := &Schema{
		fields:  orderedmap.New[string, *FieldSpec](),
		aliases: map[string]aliasRef{},
		tokens:  map[string]*fieldTokens{},
	}

	variadics := 0
	for _, f := range fields {
		if f.Name == "" {
			return nil, specErrorf("field with empty name")
		}
		if _, dup := s.fields.Get(f.Name); dup {
			return nil, specErrorf("duplicate field: %s", f.Name)
		}
		if f.Type == nil {
			return nil, specErrorf("field %s has no type", f.Name)
		}
		if f.Default != nil && f.Factory != nil {
			return nil, specErrorf("field %s: cannot specify both a default and a default factory", f.Name)
		}
		if err := checkDefaultArity(f); err != nil {
			return nil, err
		}

		switch f.Role {
		case RolePositional:
			if f.Short || len(f.Aliases) > 0 || len(f.Negators) > 0 {
				return nil, specErrorf("positional field %s cannot have aliases", f.Name)
			}
			if _, bounded := f.Type.Arity(); !bounded {
				variadics++
				if variadics > 1 {
					return nil, specErrorf("multiple positional fields with arbitrary length")
				}
			}
		case RoleOption:
			if len(f.Negators) > 0 {
				return nil, specErrorf("option field %s cannot have negators", f.Name)
			}
			if err := s.registerNamed(f); err != nil {
				return nil, err
			}
		case RoleFlag:
			if f.Type.Container() {
				return nil, specErrorf("flag field %s must be a scalar bool", f.Name)
			}
			if err := s.registerNamed(f); err != nil {
				return nil, err
			}
		default:
			return nil, specErrorf("field %s has unknown role", f.Name)
		}

		s.fields.Set(f.Name, f)
	}

	return s, nil
}

// MustNew is New, panicking on a SpecError. Schemas are built from
// static declarations, so a failure here is a programming error.
func MustNew(fields ...*FieldSpec) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func checkDefaultArity(f *FieldSpec) error {
	if f.Default == nil {
		return nil
	}
	n, bounded := f.Type.Arity()
	if !bounded {
		return nil
	}
	if len(f.Default.Values()) != n {
		return specErrorf("field %s: default has %d values, type takes %d",
			f.Name, len(f.Default.Values()), n)
	}
	return nil
}

// registerNamed registers every token an option or flag answers to: the
// canonical --kebab-case form, the snake_case spelling when it differs,
// the short form when requested, explicit aliases and negators verbatim,
// and the automatic --no- negator for flags.
func (s *Schema) registerNamed(f *FieldSpec) error {
	kebab := strcase.ToKebab(f.Name)
	ft := &fieldTokens{canonical: "--" + kebab}
	s.tokens[f.Name] = ft

	if err := s.addAlias(ft.canonical, f.Name, false); err != nil {
		return err
	}
	if f.Name != kebab {
		// the snake_case spelling is accepted but never displayed
		if err := s.addAlias("--"+f.Name, f.Name, false); err != nil {
			return err
		}
	}
	if f.Short {
		short := "-" + string([]rune(f.Name)[0])
		if err := s.addAlias(short, f.Name, false); err != nil {
			return err
		}
		ft.positives = append(ft.positives, short)
	}
	for _, alias := range f.Aliases {
		if err := s.addAlias(alias, f.Name, false); err != nil {
			return err
		}
		ft.positives = append(ft.positives, alias)
	}

	if f.Role != RoleFlag {
		return nil
	}
	for _, neg := range f.Negators {
		if err := s.addAlias(neg, f.Name, true); err != nil {
			return err
		}
		ft.negators = append(ft.negators, neg)
	}
	auto := "--no-" + kebab
	if ref, taken := s.aliases[auto]; taken {
		// an identical explicit negator on the same flag is fine; any
		// other claim on the token is a genuine conflict
		if ref.name == f.Name && ref.negate {
			return nil
		}
		return specErrorf("duplicate alias: %s", auto)
	}
	s.aliases[auto] = aliasRef{name: f.Name, negate: true}
	ft.negators = append(ft.negators, auto)
	return nil
}

func (s *Schema) addAlias(token, name string, negate bool) error {
	if token == "" {
		return specErrorf("field %s registers an empty alias", name)
	}
	if _, taken := s.aliases[token]; taken {
		return specErrorf("duplicate alias: %s", token)
	}
	s.aliases[token] = aliasRef{name: name, negate: negate}
	return nil
}

// helpKeys returns the implicit help aliases not shadowed by a field.
func (s *Schema) helpKeys() []string {
	keys := make([]string, 0, 2)
	for _, k := range []string{"-h", "--help"} {
		if _, taken := s.aliases[k]; !taken {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *Schema) isHelpKey(token string) bool {
	if token != "-h" && token != "--help" {
		return false
	}
	_, taken := s.aliases[token]
	return !taken
}

// positionals returns the positional fields in declaration order.
func (s *Schema) positionals() []*FieldSpec {
	var out []*FieldSpec
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Role == RolePositional {
			out = append(out, pair.Value)
		}
	}
	return out
}

// display returns the name a field is referred to by in diagnostics:
// the canonical alias for options and flags, the bare name otherwise.
func (s *Schema) display(f *FieldSpec) string {
	if ft, ok := s.tokens[f.Name]; ok {
		return ft.canonical
	}
	return f.Name
}

// SetProg overrides the program name shown in the usage line. It
// defaults to the base name of os.Args[0].
func (s *Schema) SetProg(prog string) {
	s.prog = prog
}

// SetOutput redirects help and diagnostics away from os.Stderr.
func (s *Schema) SetOutput(w io.Writer) {
	s.out = w
}

func (s *Schema) output() io.Writer {
	if s.out != nil {
		return s.out
	}
	return os.Stderr
}
