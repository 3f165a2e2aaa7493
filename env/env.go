// Package env abstracts environment-variable lookup so default
// factories can be exercised without touching the process environment.
package env

import "os"

// Resolver looks up environment values. Lookup distinguishes an unset
// variable from one set to the empty string.
type Resolver interface {
	Lookup(key string) (string, bool)
}

// OS resolves variables from the process environment.
type OS struct{}

// Lookup returns the value of the variable named by key.
func (OS) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is a fixed in-memory Resolver, mainly for tests.
type Map map[string]string

// Lookup returns the value stored under key.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
