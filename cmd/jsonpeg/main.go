// Program jsonpeg checks and inspects JSON files with the pegjson recognizer.
//
// Usage:
//
//	jsonpeg check [--format=json] [--stats] FILE...
//	jsonpeg tree FILE
//	jsonpeg locate FILE PATH...
//
// Settings are read from the file named by --config, or else from the nearest
// .jsonpeg.yaml in the working directory or one of its parents. Flags given
// on the command line take precedence over the file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/creachadair/pegjson"
	"github.com/creachadair/pegjson/internal/config"
	"github.com/creachadair/pegjson/internal/logutil"
)

const version = "0.1.0"

// Exit statuses.
const (
	exitOK      = 0
	exitInvalid = 1 // some input is not valid JSON
	exitFailed  = 2 // usage, configuration, or I/O error
)

// CLI defines the command-line interface
type CLI struct {
	Config   string `help:"Path to a YAML configuration file." type:"path" placeholder:"FILE"`
	MaxDepth int    `help:"Maximum nesting depth of objects and arrays."`
	MaxSize  int    `help:"Maximum input size in bytes."`
	JWCC     bool   `name:"jwcc" help:"Accept JSON with commas and comments."`
	LogLevel string `help:"Log level (trace, debug, info, warn, error)."`

	Version kong.VersionFlag `help:"Show version information."`

	Check  checkCmd  `cmd:"" help:"Check that files contain valid JSON."`
	Tree   treeCmd   `cmd:"" help:"Print the parse tree of a file."`
	Locate locateCmd `cmd:"" help:"Find the node at a path in a file."`
}

// env is the runtime environment passed to each command.
type env struct {
	cfg    *config.Config
	parser *pegjson.Parser
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer

	stdinOnce sync.Once
	stdinData []byte
	stdinErr  error
}

// errInvalid reports that at least one checked input was rejected. The
// details have already been written to the output.
var errInvalid = errors.New("invalid input")

// exitStatus is the panic value used to unwind kong's exit calls.
type exitStatus int

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (status int) {
	defer func() {
		if x := recover(); x != nil {
			code, ok := x.(exitStatus)
			if !ok {
				panic(x)
			}
			status = int(code)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsonpeg"),
		kong.Description("Check and inspect JSON text with a PEG recognizer."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitStatus(code)) }),
		kong.Vars{"version": "jsonpeg version " + version},
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "jsonpeg: %v\n", err)
		return exitFailed
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%v", err)
		return exitFailed
	}

	cfg, err := cli.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "jsonpeg: %v\n", err)
		return exitFailed
	}
	level, err := logutil.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "jsonpeg: %v\n", err)
		return exitFailed
	}
	log := logutil.NewLogger(stderr, level)
	log.Debug("configured", "command", kctx.Command(), "max_depth", cfg.Parser.MaxDepth,
		"max_input_size", cfg.Parser.MaxInputSize, "jwcc", cfg.Parser.JWCC)

	err = kctx.Run(&env{
		cfg:    cfg,
		parser: cfg.NewParser(),
		log:    log,
		stdin:  stdin,
		stdout: stdout,
	})
	return exitCode(err, stderr)
}

// exitCode reports err, if it has not already been reported, and returns the
// matching exit status.
func exitCode(err error, stderr io.Writer) int {
	var serr *pegjson.SyntaxError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalid):
		return exitInvalid
	case errors.As(err, &serr), errors.Is(err, pegjson.ErrInputTooLarge):
		fmt.Fprintf(stderr, "jsonpeg: %v\n", err)
		return exitInvalid
	default:
		fmt.Fprintf(stderr, "jsonpeg: %v\n", err)
		return exitFailed
	}
}

// loadConfig reads the configuration file, if any, and applies the global
// flags that were set on top of it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	path := c.Config
	if path == "" {
		path = config.FindConfigFile(".")
	}
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if c.MaxDepth != 0 {
		cfg.Parser.MaxDepth = c.MaxDepth
	}
	if c.MaxSize != 0 {
		cfg.Parser.MaxInputSize = c.MaxSize
	}
	if c.JWCC {
		cfg.Parser.JWCC = true
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	return cfg, cfg.Validate()
}
