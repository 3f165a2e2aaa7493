package argspec

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// Renderer produces the help/usage text for a Schema. Rendering is
// deterministic for a fixed width and environment; factory-backed
// defaults are re-resolved at render time, so the "currently" portion
// reflects the live environment.
type Renderer struct {
	schema *Schema
	prog   string
	width  int
}

// NewRenderer builds a Renderer for the schema's output writer,
// wrapping help text to the terminal width when the writer is one.
func NewRenderer(s *Schema) *Renderer {
	r := &Renderer{schema: s, prog: s.progName()}
	if f, ok := s.output().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.width = w
		}
	}
	return r
}

// Help renders the schema unwrapped, suitable for tests and plain
// writers.
func (s *Schema) Help() string {
	r := &Renderer{schema: s, prog: s.progName()}
	return r.Render()
}

func (s *Schema) progName() string {
	if s.prog != "" {
		return s.prog
	}
	return filepath.Base(os.Args[0])
}

// Render produces the full help message: usage line, flags (with the
// synthesized help flag first unless fully shadowed), value options,
// then positional arguments.
func (r *Renderer) Render() string {
	s := r.schema
	var b strings.Builder

	b.WriteString("Usage:\n")
	b.WriteString("    " + r.prog + " [OPTIONS]")
	for _, f := range s.positionals() {
		b.WriteString(" " + usagePlaceholder(f))
	}
	b.WriteString("\n\n")

	b.WriteString("Options:\n")
	if keys := s.helpKeys(); len(keys) > 0 {
		r.entry(&b, strings.Join(keys, ", "), "Print this message and exit", "false")
	}
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		if f.Role != RoleFlag {
			continue
		}
		name := r.aliasList(f)
		if negs := s.tokens[f.Name].negators; len(negs) > 0 {
			name += " (false: " + strings.Join(negs, ", ") + ")"
		}
		def, _ := r.renderDefault(f)
		r.entry(&b, name, f.Help, def)
	}
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		if f.Role != RoleOption {
			continue
		}
		name := r.aliasList(f) + " " + strings.ToUpper(f.Name) + " <" + f.Type.String() + ">"
		def, _ := r.renderDefault(f)
		r.entry(&b, name, f.Help, def)
	}

	b.WriteString("\nArguments:\n")
	for _, f := range s.positionals() {
		name := strings.ToUpper(f.Name) + " <" + f.Type.String() + ">"
		def, _ := r.renderDefault(f)
		r.entry(&b, name, f.Help, def)
	}

	return b.String()
}

// entry writes one help entry: the name line, then the description line
// with the default appended. def == "" omits the default.
func (r *Renderer) entry(b *strings.Builder, name, help, def string) {
	b.WriteString("    " + name + "\n")
	desc := help
	if def != "" {
		if desc != "" {
			desc += " "
		}
		desc += "(default: " + def + ")"
	}
	if desc != "" {
		b.WriteString(r.wrap(desc))
	}
	b.WriteString("\n")
}

// aliasList joins a field's display tokens: short and explicit aliases
// in declaration order, the canonical long form last.
func (r *Renderer) aliasList(f *FieldSpec) string {
	ft := r.schema.tokens[f.Name]
	return strings.Join(append(append([]string{}, ft.positives...), ft.canonical), ", ")
}

// renderDefault formats the default shown in help. Factory defaults
// render their static description plus the live resolved value.
func (r *Renderer) renderDefault(f *FieldSpec) (string, bool) {
	if f.Factory != nil {
		current := "<unset>"
		if v, ok := f.Factory.Resolve(); ok {
			current = "'" + v + "'"
		}
		return f.Factory.Describe() + " (currently: " + current + ")", true
	}
	if f.Default != nil {
		return strings.Join(f.Default.Values(), " "), true
	}
	if f.Role == RoleFlag {
		return "false", true
	}
	return "", false
}

// wrap lays a description out at 4-space indent, breaking on words at
// the renderer's width. Width 0 keeps everything on one line.
func (r *Renderer) wrap(text string) string {
	const indent = "    "
	if r.width <= len(indent)+1 {
		return indent + text + "\n"
	}
	var b strings.Builder
	line := indent
	for _, word := range strings.Fields(text) {
		if line != indent && len(line)+1+len(word) > r.width {
			b.WriteString(line + "\n")
			line = indent
		}
		if line != indent {
			line += " "
		}
		line += word
	}
	b.WriteString(line + "\n")
	return b.String()
}

// usagePlaceholder renders a positional field in the usage line:
// NAME for scalars, NAME repeated for tuples, NAME [NAME...] for
// unbounded sequences, the whole bracketed when the field is optional.
func usagePlaceholder(f *FieldSpec) string {
	upper := strings.ToUpper(f.Name)
	n, bounded := f.Type.Arity()

	var v string
	switch {
	case !bounded:
		v = upper + " [" + upper + "...]"
	case n == 1:
		v = upper
	default:
		parts := make([]string, n)
		for i := range parts {
			parts[i] = upper
		}
		v = strings.Join(parts, " ")
	}

	if f.Required() {
		return v
	}
	return "[" + v + "]"
}
