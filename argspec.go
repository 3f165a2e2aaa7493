// Package argspec is a declarative command-line argument parser. A
// caller describes an ordered list of fields (positional arguments,
// value options and boolean flags) with types, defaults, aliases and
// validators; argspec compiles the list into a Schema, parses raw
// token sequences into typed Records, and renders help text.
//
// A minimal schema:
//
//	schema := argspec.MustNew(
//	    argspec.Positional("path", types.Of(types.Path), argspec.WithHelp("file to serve")),
//	    argspec.Option("port", types.Of(types.Int), argspec.WithDefault("8080"), argspec.WithShort()),
//	    argspec.Flag("verbose", argspec.WithShort()),
//	)
//	rec := schema.MustParse(os.Args[1:])
//	fmt.Println(rec.String("path"), rec.Int("port"), rec.Bool("verbose"))
package argspec

import (
	"errors"
	"fmt"
	"os"

	"github.com/merou/argspec/parse"
)

// exit is indirected so MustParse can be exercised in tests.
var exit = os.Exit

// ParseString splits a command string with shell quoting rules and
// parses the resulting tokens.
func (s *Schema) ParseString(input string) (*Record, error) {
	args, err := parse.Split(input)
	if err != nil {
		return nil, &ParseError{err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return s.Parse(args)
}

// MustParse is the top-level convenience entry point. On success it
// returns the record. A help request exits 0 (Parse already printed
// the help text); a parse failure prints the diagnostic followed by
// the full help text to the schema's output and exits 1.
func (s *Schema) MustParse(args []string) *Record {
	rec, err := s.Parse(args)
	if err == nil {
		return rec
	}
	if errors.Is(err, ErrHelp) {
		exit(0)
		return nil
	}
	out := s.output()
	fmt.Fprintf(out, "error: %v\n", err)
	fmt.Fprint(out, NewRenderer(s).Render())
	exit(1)
	return nil
}
