package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/creachadair/pegjson"
	"github.com/creachadair/pegjson/internal/config"
	"github.com/creachadair/pegjson/internal/logutil"
)

type checkCmd struct {
	Format  string   `help:"Report format (text or json)." placeholder:"FMT"`
	Stats   bool     `help:"Report structure counts for valid files."`
	Workers int      `help:"Maximum number of files to check at once."`
	Files   []string `arg:"" help:"Files to check (\"-\" for standard input)."`
}

// A report is the result of checking a set of files.
type report struct {
	Files   []*fileResult `json:"files"`
	Valid   int           `json:"valid"`
	Invalid int           `json:"invalid"`
}

// A fileResult is the result of checking one file.
type fileResult struct {
	File  string     `json:"file"`
	OK    bool       `json:"ok"`
	Error *errorInfo `json:"error,omitempty"`
	Stats *stats     `json:"stats,omitempty"`
}

// errorInfo describes why a file was rejected. The position fields are set
// only for syntax errors.
type errorInfo struct {
	Message  string   `json:"message"`
	Rule     string   `json:"rule,omitempty"`
	Offset   int      `json:"offset"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column"`
	Expected []string `json:"expected,omitempty"`
}

func (c *checkCmd) Run(e *env) error {
	cfg := e.cfg
	if c.Format != "" {
		cfg.Output.Format = c.Format
	}
	if c.Stats {
		cfg.Output.Stats = true
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	results := make([]*fileResult, len(c.Files))
	var g errgroup.Group
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, name := range c.Files {
		g.Go(func() error {
			results[i] = e.checkFile(name, cfg.Output.Stats)
			return nil
		})
	}
	g.Wait() // per-file errors are recorded in results

	rep := &report{Files: results}
	for _, r := range results {
		if r.OK {
			rep.Valid++
		} else {
			rep.Invalid++
		}
	}
	e.log.Info("check complete", "valid", rep.Valid, "invalid", rep.Invalid)

	if err := rep.write(e.stdout, cfg.Output.Format); err != nil {
		return err
	}
	if rep.Invalid != 0 {
		return errInvalid
	}
	return nil
}

func (e *env) checkFile(name string, wantStats bool) *fileResult {
	res := &fileResult{File: name}
	root, err := e.parseFile(name)
	if err != nil {
		e.log.Debug("rejected", "file", name, "error", err)
		res.Error = newErrorInfo(err)
		return res
	}
	res.OK = true
	logutil.Trace(e.log, "accepted", "file", name, "rule", root.Rule, "span", root.Span)

	if wantStats {
		var st stats
		if err := pegjson.Walk(root, &st); err != nil {
			res.OK = false
			res.Error = newErrorInfo(err)
			return res
		}
		res.Stats = &st
	}
	return res
}

// parseFile parses the named file, or standard input if name is "-".
// Standard input is read only once, however many times it is named.
func (e *env) parseFile(name string) (*pegjson.Node, error) {
	if name == "-" {
		data, err := e.readStdin()
		if err != nil {
			return nil, err
		}
		return e.parser.Parse(data)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.parser.ParseReader(f)
}

// readStdin reads standard input up to one byte past the size limit, so that
// the parser reports oversized input.
func (e *env) readStdin() ([]byte, error) {
	e.stdinOnce.Do(func() {
		limit := e.cfg.Parser.MaxInputSize
		if limit <= 0 {
			limit = pegjson.DefaultMaxInputSize
		}
		e.stdinData, e.stdinErr = io.ReadAll(io.LimitReader(e.stdin, int64(limit)+1))
	})
	return e.stdinData, e.stdinErr
}

func newErrorInfo(err error) *errorInfo {
	var serr *pegjson.SyntaxError
	if !errors.As(err, &serr) {
		return &errorInfo{Message: err.Error()}
	}
	return &errorInfo{
		Message:  serr.Message,
		Rule:     serr.Rule.String(),
		Offset:   serr.Offset,
		Line:     serr.Location.Line,
		Column:   serr.Location.Column,
		Expected: serr.Expected,
	}
}

func (r *report) write(w io.Writer, format string) error {
	if format == config.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	for _, f := range r.Files {
		var err error
		switch {
		case f.Error != nil && f.Error.Line != 0:
			_, err = fmt.Fprintf(w, "%s:%d:%d: %s\n", f.File, f.Error.Line, f.Error.Column, f.Error.Message)
		case f.Error != nil:
			_, err = fmt.Fprintf(w, "%s: %s\n", f.File, f.Error.Message)
		case f.Stats != nil:
			_, err = fmt.Fprintf(w, "%s: ok (%v)\n", f.File, f.Stats)
		default:
			_, err = fmt.Fprintf(w, "%s: ok\n", f.File)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// stats is a pegjson.Handler that counts the structure of a tree.
type stats struct {
	Objects  int `json:"objects"`
	Arrays   int `json:"arrays"`
	Members  int `json:"members"`
	Strings  int `json:"strings"`
	Numbers  int `json:"numbers"`
	Literals int `json:"literals"` // true, false, null
	MaxDepth int `json:"max_depth"`

	depth int
}

func (s *stats) String() string {
	return fmt.Sprintf("objects=%d arrays=%d members=%d strings=%d numbers=%d literals=%d depth=%d",
		s.Objects, s.Arrays, s.Members, s.Strings, s.Numbers, s.Literals, s.MaxDepth)
}

func (s *stats) enter() {
	s.depth++
	s.MaxDepth = max(s.MaxDepth, s.depth)
}

func (s *stats) BeginObject(*pegjson.Node) error { s.Objects++; s.enter(); return nil }
func (s *stats) EndObject(*pegjson.Node) error   { s.depth--; return nil }
func (s *stats) BeginArray(*pegjson.Node) error  { s.Arrays++; s.enter(); return nil }
func (s *stats) EndArray(*pegjson.Node) error    { s.depth--; return nil }
func (s *stats) BeginMember(*pegjson.Node) error { s.Members++; return nil }
func (s *stats) EndMember(*pegjson.Node) error   { return nil }

func (s *stats) Value(v *pegjson.Node) error {
	switch v.Rule {
	case pegjson.String:
		s.Strings++
	case pegjson.Number:
		s.Numbers++
	case pegjson.Bool, pegjson.Null:
		s.Literals++
	default:
		return fmt.Errorf("unexpected value %v", v)
	}
	return nil
}
