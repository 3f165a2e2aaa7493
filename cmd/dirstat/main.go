// Command dirstat summarizes the contents of a directory tree. It is
// mainly a worked example of declaring and parsing a schema with
// argspec.
package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/merou/argspec"
	"github.com/merou/argspec/types"
)

type stats struct {
	Files int   `json:"files"`
	Dirs  int   `json:"dirs"`
	Bytes int64 `json:"bytes"`
}

func main() {
	schema := argspec.MustNew(
		argspec.Positional("root", types.Of(types.Path),
			argspec.WithDefault("."),
			argspec.WithHelp("directory to summarize")),
		argspec.Option("depth", types.Of(types.Int),
			argspec.WithDefault("-1"), argspec.WithShort(),
			argspec.WithHelp("descend at most this many levels, -1 for no limit")),
		argspec.Option("format", types.Choices("plain", "json"),
			argspec.WithFactory(argspec.ReadEnv("DIRSTAT_FORMAT", "plain")),
			argspec.WithHelp("output format")),
		argspec.Option("exclude", types.SliceOf(types.String),
			argspec.WithDefault(),
			argspec.WithHelp("base names to skip")),
		argspec.Flag("verbose", argspec.WithShort(),
			argspec.WithHelp("print every visited entry")),
	)
	schema.SetProg("dirstat")
	rec := schema.MustParse(os.Args[1:])

	root := rec.String("root")
	depth := rec.Int("depth")
	excluded := map[string]bool{}
	for _, name := range rec.Strings("exclude") {
		excluded[name] = true
	}

	var st stats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if excluded[d.Name()] && rel != "." {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if depth >= 0 && rel != "." && int64(strings.Count(rel, string(filepath.Separator))) >= depth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if rec.Bool("verbose") {
			fmt.Println(rel)
		}
		if d.IsDir() {
			st.Dirs++
			return nil
		}
		st.Files++
		if info, err := d.Info(); err == nil {
			st.Bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dirstat: %v\n", err)
		os.Exit(1)
	}

	switch rec.String("format") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(st)
	default:
		fmt.Printf("%s: %d files, %d dirs, %d bytes\n", root, st.Files, st.Dirs, st.Bytes)
	}
}
