// Package types describes the closed set of value types an argument
// field may declare, and converts raw command-line tokens into them.
package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Scalar enumerates the supported element types.
type Scalar int

const (
	String Scalar = iota
	Int
	Float
	Bool
	Path
	Duration
	Time
	Choice
)

// String returns the name used for a Scalar in help output.
func (s Scalar) String() string {
	switch s {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Path:
		return "path"
	case Duration:
		return "duration"
	case Time:
		return "time"
	case Choice:
		return "choice"
	}
	return "unknown"
}

var (
	ErrParseInt      = errors.New("value is not an integer")
	ErrParseFloat    = errors.New("value is not a number")
	ErrParseBool     = errors.New("value is not a boolean")
	ErrParseDuration = errors.New("value is not a duration")
	ErrParseTime     = errors.New("value is not a date or time")
	ErrBadChoice     = errors.New("value is not an accepted choice")
	ErrArity         = errors.New("wrong number of values")
	ErrNotContainer  = errors.New("type does not hold multiple values")
)

// Descriptor is a closed, tagged description of a field's target type:
// a scalar, a fixed-arity tuple of a scalar, or an unbounded sequence
// of a scalar. Unrepresentable types simply cannot be constructed.
type Descriptor struct {
	scalar  Scalar
	choices []string
	tuple   int
	slice   bool
}

// Of returns a Descriptor for a single scalar value.
func Of(s Scalar) *Descriptor {
	return &Descriptor{scalar: s}
}

// Choices returns a Descriptor accepting exactly the given literal values.
func Choices(values ...string) *Descriptor {
	return &Descriptor{scalar: Choice, choices: values}
}

// SliceOf returns a Descriptor for an unbounded sequence of a scalar.
func SliceOf(s Scalar) *Descriptor {
	return &Descriptor{scalar: s, slice: true}
}

// TupleOf returns a Descriptor for a fixed-arity tuple of a scalar.
// n must be at least 1.
func TupleOf(n int, s Scalar) *Descriptor {
	return &Descriptor{scalar: s, tuple: n}
}

// Scalar reports the element type of the Descriptor.
func (d *Descriptor) Scalar() Scalar {
	return d.scalar
}

// ChoiceValues returns the accepted literals of a Choice descriptor.
func (d *Descriptor) ChoiceValues() []string {
	return d.choices
}

// Container reports whether the Descriptor holds more than one raw token.
func (d *Descriptor) Container() bool {
	return d.slice || d.tuple > 0
}

// Arity returns the number of raw tokens the type consumes. bounded is
// false for unbounded sequences, in which case n is meaningless.
func (d *Descriptor) Arity() (n int, bounded bool) {
	switch {
	case d.slice:
		return 0, false
	case d.tuple > 0:
		return d.tuple, true
	default:
		return 1, true
	}
}

// String renders the type name shown in help messages.
func (d *Descriptor) String() string {
	name := d.scalar.String()
	if d.scalar == Choice {
		name = "choice{" + strings.Join(d.choices, "|") + "}"
	}
	switch {
	case d.slice:
		return "[]" + name
	case d.tuple > 0:
		parts := make([]string, d.tuple)
		for i := range parts {
			parts[i] = name
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return name
	}
}

// Coerce converts a single raw token into the scalar type of the
// Descriptor. Calling it on a container Descriptor converts one element.
func (d *Descriptor) Coerce(raw string) (any, error) {
	switch d.scalar {
	case String:
		return raw, nil
	case Path:
		return filepath.Clean(raw), nil
	case Int:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrParseInt, raw)
		}
		return v, nil
	case Float:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrParseFloat, raw)
		}
		return v, nil
	case Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrParseBool, raw)
		}
		return v, nil
	case Duration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrParseDuration, raw)
		}
		return v, nil
	case Time:
		v, err := dateparse.ParseLocal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrParseTime, raw)
		}
		return v, nil
	case Choice:
		for _, c := range d.choices {
			if raw == c {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%w: %q (accepted: %s)", ErrBadChoice, raw, strings.Join(d.choices, ", "))
	}
	return nil, fmt.Errorf("unsupported scalar %v", d.scalar)
}

// CoerceAll converts an arity-resolved sequence of raw tokens into the
// container type of the Descriptor, element-wise. The result is a typed
// slice ([]string, []int64, []float64, []bool, []time.Duration or
// []time.Time); fixed tuples additionally have their declared size
// checked.
func (d *Descriptor) CoerceAll(raws []string) (any, error) {
	if !d.Container() {
		return nil, ErrNotContainer
	}
	if d.tuple > 0 && len(raws) != d.tuple {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArity, d.tuple, len(raws))
	}

	switch d.scalar {
	case String, Path, Choice:
		out := make([]string, 0, len(raws))
		for _, raw := range raws {
			v, err := d.Coerce(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(string))
		}
		return out, nil
	case Int:
		out := make([]int64, 0, len(raws))
		for _, raw := range raws {
			v, err := d.Coerce(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int64))
		}
		return out, nil
	case Float:
		out := make([]float64, 0, len(raws))
		for _, raw := range raws {
			v, err := d.Coerce(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	case Bool:
		out := make([]bool, 0, len(raws))
		for _, raw := range raws {
			v, err := d.Coerce(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(bool))
		}
		return out, nil
	case Duration:
		out := make([]time.Duration, 0, len(raws))
		for _, raw := range raws {
			v, err := d.Coerce(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Duration))
		}
		return out, nil
	case Time:
		out := make([]time.Time, 0, len(raws))
		for _, raw := range raws {
			v, err := d.Coerce(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Time))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported scalar %v", d.scalar)
}
