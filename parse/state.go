// Package parse holds the low-level token plumbing used by the parser:
// a cursor over an argument list and shell-style splitting of command
// strings.
package parse

// State is a cursor over a raw argument list. A fresh State starts
// before the first argument; Advance moves onto it.
type State struct {
	pos  int
	args []string
}

// NewState creates a State positioned before the first argument.
func NewState(args []string) *State {
	return &State{pos: -1, args: args}
}

// Advance moves to the next argument, reporting whether one exists.
func (s *State) Advance() bool {
	if s.pos+1 < len(s.args) {
		s.pos++
		return true
	}
	return false
}

// Current returns the argument under the cursor, or "" when the cursor
// is out of range.
func (s *State) Current() string {
	if s.pos < 0 || s.pos >= len(s.args) {
		return ""
	}
	return s.args[s.pos]
}

// Peek returns the next argument without advancing, or "" at the end.
func (s *State) Peek() string {
	if s.pos+1 < len(s.args) {
		return s.args[s.pos+1]
	}
	return ""
}

// HasNext reports whether another argument follows the cursor.
func (s *State) HasNext() bool {
	return s.pos+1 < len(s.args)
}

// Pos returns the current cursor position.
func (s *State) Pos() int {
	return s.pos
}

// Len returns the length of the argument list.
func (s *State) Len() int {
	return len(s.args)
}

// Args returns the underlying argument list.
func (s *State) Args() []string {
	return s.args
}
