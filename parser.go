package argspec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ef-ds/deque"

	"github.com/merou/argspec/parse"
)

// Parse consumes a raw token sequence against the schema and returns a
// fully-typed Record. It proceeds in four passes: token classification,
// positional distribution, default resolution and coercion, and
// validation. On a help alias it writes the help text to the schema's
// output writer and returns ErrHelp; every other failure is a
// *ParseError wrapping one of the sentinel errors. Working state is
// local to the call, so a Schema may be parsed concurrently.
func (s *Schema) Parse(args []string) (*Record, error) {
	captured := map[string][]string{}
	toggled := map[string]bool{}

	// Pass 1: classify tokens into option values, flag toggles and a
	// buffer of unclaimed positional tokens.
	st := parse.NewState(args)
	buf := deque.New()
	positionalOnly := false

	for st.Advance() {
		tok := st.Current()
		if positionalOnly {
			buf.PushBack(tok)
			continue
		}
		if tok == "--" {
			positionalOnly = true
			continue
		}

		alias := tok
		inline := ""
		hasInline := false
		if i := strings.IndexByte(tok, '='); i >= 0 {
			// eager split, but only when the prefix is a known alias;
			// anything else keeps its = verbatim
			if _, known := s.aliases[tok[:i]]; known {
				alias, inline, hasInline = tok[:i], tok[i+1:], true
			}
		}

		if ref, known := s.aliases[alias]; known {
			f, _ := s.fields.Get(ref.name)
			switch f.Role {
			case RoleOption:
				if hasInline {
					captured[f.Name] = []string{inline}
					continue
				}
				raws, err := s.consumeOptionValues(st, f)
				if err != nil {
					return nil, err
				}
				captured[f.Name] = raws
			case RoleFlag:
				if hasInline {
					return nil, invalidValueErr(f.Name, s.display(f), tok,
						fmt.Errorf("flag %s does not take a value", s.display(f)))
				}
				toggled[f.Name] = !ref.negate
			}
			continue
		}

		if s.isHelpKey(tok) {
			fmt.Fprintln(s.output(), s.Help())
			return nil, ErrHelp
		}

		if looksLikeAlias(tok) {
			return nil, &ParseError{
				Token: tok,
				err:   fmt.Errorf("%w: %s", ErrUnknownArgument, tok),
			}
		}
		buf.PushBack(tok)
	}

	// Pass 2: distribute the positional buffer over positional fields
	// in declaration order, reserving tail tokens for the fixed-arity
	// fields declared after the unbounded one.
	values := map[string]any{}
	fields := s.positionals()
	for i, f := range fields {
		n, bounded := f.Type.Arity()
		take := n
		if !bounded {
			tail := 0
			for _, g := range fields[i+1:] {
				gn, _ := g.Type.Arity()
				tail += gn
			}
			take = buf.Len() - tail
			if take < 0 {
				take = 0
			}
		}

		if take == 0 || buf.Len() == 0 {
			v, err := s.resolveAbsentPositional(f, bounded)
			if err != nil {
				return nil, err
			}
			values[f.Name] = v
			continue
		}

		raws := make([]string, 0, take)
		for len(raws) < take {
			tok, ok := buf.PopFront()
			if !ok {
				return nil, parseErr(ErrMissingPositional, f.Name,
					": %s (need %d more values)", f.Name, take-len(raws))
			}
			raws = append(raws, tok.(string))
		}
		v, err := coerceField(f, raws)
		if err != nil {
			return nil, invalidValueErr(f.Name, f.Name, strings.Join(raws, " "), err)
		}
		values[f.Name] = v
	}
	if buf.Len() > 0 {
		extras := make([]string, 0, buf.Len())
		for {
			tok, ok := buf.PopFront()
			if !ok {
				break
			}
			extras = append(extras, tok.(string))
		}
		return nil, &ParseError{
			Token: extras[0],
			err:   fmt.Errorf("%w: %s", ErrExtraPositional, strings.Join(extras, ", ")),
		}
	}

	// Pass 3: resolve defaults for options and flags the token stream
	// did not populate, then coerce everything that is still raw.
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		switch f.Role {
		case RoleFlag:
			if b, ok := toggled[f.Name]; ok {
				values[f.Name] = b
				continue
			}
			raws, ok := resolveDefault(f)
			if !ok {
				values[f.Name] = false
				continue
			}
			v, err := f.Type.Coerce(raws[0])
			if err != nil {
				return nil, invalidValueErr(f.Name, s.display(f), raws[0], err)
			}
			values[f.Name] = v
		case RoleOption:
			raws, seen := captured[f.Name]
			if !seen {
				var ok bool
				raws, ok = resolveDefault(f)
				if !ok {
					return nil, parseErr(ErrMissingValue, f.Name, " for %s", s.display(f))
				}
			}
			v, err := coerceField(f, raws)
			if err != nil {
				return nil, invalidValueErr(f.Name, s.display(f), strings.Join(raws, " "), err)
			}
			values[f.Name] = v
		}
	}

	// Pass 4: validators run against final coerced values only.
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		if f.Validator != nil && !f.Validator(values[f.Name]) {
			return nil, parseErr(ErrValidationFailed, f.Name,
				" for %s: %v", s.display(f), values[f.Name])
		}
	}

	return &Record{schema: s, values: values}, nil
}

// consumeOptionValues reads the value tokens following an option alias.
// Scalar options take exactly the next token. Container options consume
// greedily up to the next alias, help key or -- separator (bounded by
// the tuple arity for fixed tuples).
func (s *Schema) consumeOptionValues(st *parse.State, f *FieldSpec) ([]string, error) {
	n, bounded := f.Type.Arity()
	if bounded && n == 1 {
		if !st.Advance() {
			return nil, parseErr(ErrMissingOptionValue, f.Name, " %s", s.display(f))
		}
		return []string{st.Current()}, nil
	}

	var raws []string
	for st.HasNext() {
		next := st.Peek()
		if s.isBoundary(next) {
			break
		}
		st.Advance()
		raws = append(raws, st.Current())
		if bounded && len(raws) == n {
			break
		}
	}
	if len(raws) == 0 {
		return nil, parseErr(ErrMissingOptionValue, f.Name, " %s", s.display(f))
	}
	return raws, nil
}

// isBoundary reports whether a token ends a container option's value
// run: the -- separator, any registered alias (also in its =value
// form), or an active help key.
func (s *Schema) isBoundary(tok string) bool {
	if tok == "--" {
		return true
	}
	if _, known := s.aliases[tok]; known {
		return true
	}
	if i := strings.IndexByte(tok, '='); i >= 0 {
		if _, known := s.aliases[tok[:i]]; known {
			return true
		}
	}
	return s.isHelpKey(tok)
}

// resolveAbsentPositional yields the value of a positional field that
// received no tokens: its default, its factory, the empty sequence for
// unbounded fields, or a MissingPositional error.
func (s *Schema) resolveAbsentPositional(f *FieldSpec, bounded bool) (any, error) {
	if raws, ok := resolveDefault(f); ok {
		v, err := coerceField(f, raws)
		if err != nil {
			return nil, invalidValueErr(f.Name, f.Name, strings.Join(raws, " "), err)
		}
		return v, nil
	}
	if !bounded {
		return f.Type.CoerceAll(nil)
	}
	return nil, parseErr(ErrMissingPositional, f.Name, ": %s", f.Name)
}

// resolveDefault returns a field's raw default values: the literal
// default first, otherwise the factory. ok is false when neither
// yields anything.
func resolveDefault(f *FieldSpec) ([]string, bool) {
	if f.Default != nil {
		return f.Default.Values(), true
	}
	if f.Factory != nil {
		if v, ok := f.Factory.Resolve(); ok {
			return []string{v}, true
		}
	}
	return nil, false
}

func coerceField(f *FieldSpec, raws []string) (any, error) {
	if f.Type.Container() {
		return f.Type.CoerceAll(raws)
	}
	if len(raws) != 1 {
		return nil, fmt.Errorf("expected one value, got %d", len(raws))
	}
	return f.Type.Coerce(raws[0])
}

// looksLikeAlias reports whether an unmatched token should surface as
// an unknown argument rather than fall through to the positional
// buffer. Plain negative numbers are legal bare values.
func looksLikeAlias(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}
