package argspec

import (
	"fmt"
	"strconv"
	"time"
)

// Record is the output of a successful Parse: one coerced value per
// declared field.
type Record struct {
	schema *Schema
	values map[string]any
}

// Get returns the coerced value of a field, or nil for an unknown name.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// Has reports whether the record holds a value for name.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// String returns a string-typed field (string, path or choice).
func (r *Record) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

// Int returns an integer-typed field.
func (r *Record) Int(name string) int64 {
	v, _ := r.values[name].(int64)
	return v
}

// Float returns a float-typed field.
func (r *Record) Float(name string) float64 {
	v, _ := r.values[name].(float64)
	return v
}

// Bool returns a flag or bool-typed field.
func (r *Record) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

// Duration returns a duration-typed field.
func (r *Record) Duration(name string) time.Duration {
	v, _ := r.values[name].(time.Duration)
	return v
}

// Time returns a time-typed field.
func (r *Record) Time(name string) time.Time {
	v, _ := r.values[name].(time.Time)
	return v
}

// Strings returns a container field of strings, paths or choices.
func (r *Record) Strings(name string) []string {
	v, _ := r.values[name].([]string)
	return v
}

// Ints returns a container field of integers.
func (r *Record) Ints(name string) []int64 {
	v, _ := r.values[name].([]int64)
	return v
}

// Floats returns a container field of floats.
func (r *Record) Floats(name string) []float64 {
	v, _ := r.values[name].([]float64)
	return v
}

// Args serializes the record back into a token sequence that reparses
// to an identical record: options as --name followed by their values,
// flags as their
// positive alias (or a negator when false), then a -- separator and the
// positional values.
func (r *Record) Args() []string {
	var out []string
	var positionals []string

	for pair := r.schema.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		switch f.Role {
		case RolePositional:
			positionals = append(positionals, formatValues(r.values[f.Name])...)
		case RoleOption:
			vals := formatValues(r.values[f.Name])
			if len(vals) == 0 {
				// an empty container has no sequential spelling
				continue
			}
			out = append(out, r.schema.tokens[f.Name].canonical)
			out = append(out, vals...)
		case RoleFlag:
			ft := r.schema.tokens[f.Name]
			if r.Bool(f.Name) {
				out = append(out, ft.canonical)
			} else if len(ft.negators) > 0 {
				out = append(out, ft.negators[0])
			}
		}
	}

	if len(positionals) > 0 {
		out = append(out, "--")
		out = append(out, positionals...)
	}
	return out
}

func formatValues(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []int64:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = formatScalar(e)
		}
		return out
	case []float64:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = formatScalar(e)
		}
		return out
	case []bool:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = formatScalar(e)
		}
		return out
	case []time.Duration:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = formatScalar(e)
		}
		return out
	case []time.Time:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = formatScalar(e)
		}
		return out
	default:
		return []string{formatScalar(v)}
	}
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Duration:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
