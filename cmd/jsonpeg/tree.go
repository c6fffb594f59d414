package main

import (
	"fmt"
	"strconv"

	"github.com/creachadair/pegjson"
	"github.com/creachadair/pegjson/cursor"
)

type treeCmd struct {
	File string `arg:"" help:"File to parse (\"-\" for standard input)."`
}

func (c *treeCmd) Run(e *env) error {
	root, err := e.parseFile(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	return pegjson.Fprint(e.stdout, root)
}

// Path elements are not parsed as flags once the first one is seen, so that
// negative offsets like -1 can follow a key. A path that begins with a
// negative offset must be preceded by "--".
type locateCmd struct {
	File string   `arg:"" help:"File to parse (\"-\" for standard input)."`
	Path []string `arg:"" optional:"" passthrough:"" help:"Path elements: object keys or array offsets."`
}

func (c *locateCmd) Run(e *env) error {
	root, err := e.parseFile(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	n, err := cursor.Path(root, parsePath(c.Path)...)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	_, err = fmt.Fprintln(e.stdout, describe(n))
	return err
}

// parsePath converts command-line path elements to cursor path elements.
// Elements that parse as integers are offsets, others are object keys.
// A path that ends on a pair resolves to its value.
func parsePath(args []string) []any {
	path := make([]any, 0, len(args)+1)
	for _, arg := range args {
		if v, err := strconv.Atoi(arg); err == nil {
			path = append(path, v)
		} else {
			path = append(path, arg)
		}
	}
	return append(path, nil)
}

// describe renders the rule and location of n, followed by its text if it is
// a scalar.
func describe(n *pegjson.Node) string {
	s := fmt.Sprintf("%v %v", n.Rule, n.Location())
	switch n.Rule {
	case pegjson.String, pegjson.Number, pegjson.Bool, pegjson.Null:
		s += " " + n.Text()
	}
	return s
}
