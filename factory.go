package argspec

import (
	"github.com/merou/argspec/env"
)

// DefaultFactory is a deferred default provider. Resolve is called at
// default-resolution time during Parse, and again, independently, when
// help is rendered; the two calls may observe different values.
// Describe is the static portion shown in help output.
type DefaultFactory interface {
	Resolve() (value string, ok bool)
	Describe() string
}

// FactoryFunc adapts a plain function to a DefaultFactory.
type FactoryFunc func() (string, bool)

func (fn FactoryFunc) Resolve() (string, bool) {
	return fn()
}

func (fn FactoryFunc) Describe() string {
	return "<computed>"
}

// EnvDefault resolves a default from an environment variable, with an
// optional static fallback when the variable is unset.
type EnvDefault struct {
	Key      string
	fallback string
	hasFall  bool
	resolver env.Resolver
}

// ReadEnv returns a factory reading the named environment variable. At
// most one fallback may be given; it is used when the variable is
// unset. A variable set to the empty string counts as set.
func ReadEnv(key string, fallback ...string) *EnvDefault {
	e := &EnvDefault{Key: key, resolver: env.OS{}}
	if len(fallback) > 0 {
		e.fallback = fallback[0]
		e.hasFall = true
	}
	return e
}

// WithResolver substitutes the environment source, mainly for tests.
func (e *EnvDefault) WithResolver(r env.Resolver) *EnvDefault {
	e.resolver = r
	return e
}

// Resolve returns the live environment value, or the fallback when the
// variable is unset. ok is false when neither resolves.
func (e *EnvDefault) Resolve() (string, bool) {
	if v, ok := e.resolver.Lookup(e.Key); ok {
		return v, true
	}
	if e.hasFall {
		return e.fallback, true
	}
	return "", false
}

// Describe renders the static help form, e.g. "$KEY or 'fallback'".
func (e *EnvDefault) Describe() string {
	if e.hasFall {
		return "$" + e.Key + " or '" + e.fallback + "'"
	}
	return "$" + e.Key
}
