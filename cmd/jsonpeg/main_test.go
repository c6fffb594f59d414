package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the tool with args and the given standard input, and returns
// its exit status and output.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeFiles creates the named files in a temporary directory and returns
// their paths, in order.
func writeFiles(t *testing.T, nameContent ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := 0; i+1 < len(nameContent); i += 2 {
		path := filepath.Join(dir, nameContent[i])
		require.NoError(t, os.WriteFile(path, []byte(nameContent[i+1]), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestCheck_Valid(t *testing.T) {
	files := writeFiles(t,
		"a.json", `{"a": [1, 2, 3]}`,
		"b.json", "[\n  true,\n  null\n]\n",
	)
	code, out, _ := runCLI(t, "", append([]string{"check"}, files...)...)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, files[0]+": ok\n"+files[1]+": ok\n", out)
}

func TestCheck_Invalid(t *testing.T) {
	files := writeFiles(t,
		"good.json", `{}`,
		"bad.json", `{"a":1,}`,
	)
	code, out, _ := runCLI(t, "", append([]string{"check"}, files...)...)
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, files[0]+": ok\n")
	assert.Contains(t, out, files[1]+`:1:7: object: expected string, got "}"`)
}

func TestCheck_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonesuch.json")
	code, out, _ := runCLI(t, "", "check", missing)
	assert.Equal(t, exitInvalid, code)
	assert.True(t, strings.HasPrefix(out, missing+": "), "output: %q", out)
}

func TestCheck_Stdin(t *testing.T) {
	code, out, _ := runCLI(t, `[1, {"b": false}]`, "check", "--stats", "-")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "-: ok (objects=1 arrays=1 members=1 strings=0 numbers=1 literals=1 depth=2)\n", out)
}

func TestCheck_StdinTwice(t *testing.T) {
	code, out, _ := runCLI(t, `{"a": [1]}`, "check", "--workers=2", "-", "-")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "-: ok\n-: ok\n", out)

	code, out, _ = runCLI(t, `[1,]`, "check", "-", "-")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, 2, strings.Count(out, `-:1:3: array: expected`), "output: %q", out)
}

func TestCheck_StdinTooLarge(t *testing.T) {
	code, out, _ := runCLI(t, `[1, 2, 3]`, "--max-size=4", "check", "-")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, "-: input too large: 5 bytes (limit 4)")
}

func TestCheck_JSONReport(t *testing.T) {
	files := writeFiles(t,
		"ok.json", `{"k": ["x", 2.5e3, null]}`,
		"bad.json", "[\n  1,\n  tru\n]",
	)
	args := append([]string{"check", "--format=json", "--stats", "--workers=1"}, files...)
	code, out, _ := runCLI(t, "", args...)
	assert.Equal(t, exitInvalid, code)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.Valid)
	assert.Equal(t, 1, rep.Invalid)
	require.Len(t, rep.Files, 2)

	ok := rep.Files[0]
	assert.Equal(t, files[0], ok.File)
	assert.True(t, ok.OK)
	require.NotNil(t, ok.Stats)
	assert.Equal(t, 1, ok.Stats.Objects)
	assert.Equal(t, 1, ok.Stats.Arrays)
	assert.Equal(t, 1, ok.Stats.Strings)
	assert.Equal(t, 1, ok.Stats.Numbers)
	assert.Equal(t, 1, ok.Stats.Literals)
	assert.Equal(t, 2, ok.Stats.MaxDepth)

	bad := rep.Files[1]
	assert.False(t, bad.OK)
	assert.Nil(t, bad.Stats)
	require.NotNil(t, bad.Error)
	assert.Equal(t, 3, bad.Error.Line)
	assert.Equal(t, 2, bad.Error.Column)
	assert.NotEmpty(t, bad.Error.Expected)
}

func TestCheck_Limits(t *testing.T) {
	files := writeFiles(t, "deep.json", `[[[1]]]`)

	code, out, _ := runCLI(t, "", "--max-depth=2", "check", files[0])
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, files[0]+":1:2: array: maximum nesting depth exceeded (limit 2)")

	code, out, _ = runCLI(t, "", "--max-size=4", "check", files[0])
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, out, "input too large")

	code, _, _ = runCLI(t, "", "check", files[0])
	assert.Equal(t, exitOK, code)
}

func TestCheck_JWCC(t *testing.T) {
	files := writeFiles(t, "c.jwcc", "{\n  // comment\n  \"a\": 1,\n}\n")

	code, _, _ := runCLI(t, "", "check", files[0])
	assert.Equal(t, exitInvalid, code)

	code, out, _ := runCLI(t, "", "--jwcc", "check", files[0])
	assert.Equal(t, exitOK, code)
	assert.Equal(t, files[0]+": ok\n", out)
}

func TestConfigFile(t *testing.T) {
	files := writeFiles(t,
		"cfg.yaml", "parser:\n  max_depth: 1\noutput:\n  format: json\n",
		"nested.json", `[[0]]`,
	)
	code, out, _ := runCLI(t, "", "--config", files[0], "check", files[1])
	assert.Equal(t, exitInvalid, code)
	assert.True(t, json.Valid([]byte(out)), "report is not JSON: %q", out)

	// Flags override the configuration file.
	code, _, _ = runCLI(t, "", "--config", files[0], "--max-depth=5", "check", "--format=text", files[1])
	assert.Equal(t, exitOK, code)

	bad := writeFiles(t, "bad.yaml", "log_level: chatty\n")
	code, _, errOut := runCLI(t, "", "--config", bad[0], "check", files[1])
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, errOut, "unknown log level")
}

func TestTree(t *testing.T) {
	files := writeFiles(t, "t.json", `{"a": true}`)
	code, out, _ := runCLI(t, "", "tree", files[0])
	assert.Equal(t, exitOK, code)
	assert.Equal(t, `object 0-11 1:0-11
  pair 1-10 1:1-10
    string 1-4 1:1-4 "a"
    value 6-10 1:6-10
      bool 6-10 1:6-10 true
`, out)

	code, _, errOut := runCLI(t, "[", "tree", "-")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, errOut, "-: at 1:1:")
}

func TestLocate(t *testing.T) {
	files := writeFiles(t, "l.json", `{"a": [1, {"b": "x"}]}`)
	tests := []struct {
		path []string
		want string
	}{
		{nil, "object 1:0-22"},
		{[]string{"a"}, "array 1:6-21"},
		{[]string{"a", "0"}, "number 1:7-8 1"},
		{[]string{"a", "-1", "b"}, `string 1:16-19 "x"`},
		{[]string{"a", "-2"}, "number 1:7-8 1"},
		{[]string{"--", "-1"}, "array 1:6-21"},
	}
	for _, tc := range tests {
		args := append([]string{"locate", files[0]}, tc.path...)
		code, out, errOut := runCLI(t, "", args...)
		assert.Equal(t, exitOK, code, "path %q: %s", tc.path, errOut)
		assert.Equal(t, tc.want+"\n", out, "path %q", tc.path)
	}

	code, _, errOut := runCLI(t, "", "locate", files[0], "a", "7")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, errOut, "out of bounds")
}

func TestVersionAndUsage(t *testing.T) {
	code, out, _ := runCLI(t, "", "--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "jsonpeg version "+version+"\n", out)

	code, _, errOut := runCLI(t, "", "check", "--bogus", "x.json")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, errOut, "--bogus")

	code, out, _ = runCLI(t, "", "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "check")
}
