package definition_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/kbukum/linekit/definition"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/unix"
)

const sample = `
pipelines:
  top-errors:
    description: most frequent error lines
    stages:
      - command: grep
        options: [ignoreCase]
        operands: ["error"]
      - command: sort
      - command: uniq
        options: [count]
  first:
    stages:
      - command: head
        operands: ["1"]
`

func TestParse(t *testing.T) {
	f, err := definition.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, want := f.Names(), []string{"first", "top-errors"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	d, ok := f.Lookup("top-errors")
	if !ok {
		t.Fatal("Lookup(top-errors) not found")
	}
	if d.Description != "most frequent error lines" || len(d.Stages) != 3 {
		t.Errorf("definition = %+v", d)
	}
	if got := d.Stages[0]; got.Command != "grep" || !slices.Equal(got.Options, []string{"ignoreCase"}) || !slices.Equal(got.Operands, []string{"error"}) {
		t.Errorf("stage 0 = %+v", got)
	}

	sums := f.Summaries()
	if len(sums) != 2 || sums[0].Name != "first" || sums[1].Stages != 3 {
		t.Errorf("Summaries() = %+v", sums)
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := definition.Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if len(f.Names()) != 0 {
		t.Errorf("Names() = %v, want none", f.Names())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no stages", "pipelines:\n  p:\n    description: x\n"},
		{"missing command", "pipelines:\n  p:\n    stages:\n      - options: [count]\n"},
		{"unknown key", "pipelines:\n  p:\n    steps:\n      - command: sort\n"},
		{"malformed", "pipelines: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definition.Parse([]byte(tt.yaml))
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("LINEKIT_TEST_PATTERN", "warn")
	data := `
pipelines:
  p:
    stages:
      - command: grep
        operands: ["${LINEKIT_TEST_PATTERN}"]
      - command: grep
        operands: ["${LINEKIT_TEST_UNSET}"]
      - command: grep
        operands: ["end$"]
`
	f, err := definition.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	stages := f.Pipelines["p"].Stages
	for i, want := range []string{"warn", "${LINEKIT_TEST_UNSET}", "end$"} {
		if got := stages[i].Operands[0]; got != want {
			t.Errorf("stage %d operand = %q, want %q", i, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	f, err := definition.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, err := f.Build("top-errors", unix.DefaultRegistry)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if p.Name() != "top-errors" || p.Len() != 3 {
		t.Errorf("builder = %s (%d stages)", p.Name(), p.Len())
	}

	got, err := p.RunLines(context.Background(), []string{"ERROR a", "ok", "error b", "ERROR a"})
	if err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}
	want := []string{"      2 ERROR a", "      1 error b"}
	if !slices.Equal(got, want) {
		t.Errorf("RunLines() = %q, want %q", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	data := `
pipelines:
  bad-command:
    stages:
      - command: sort
      - command: nope
  bad-option:
    stages:
      - command: uniq
        options: [sideways]
`
	f, err := definition.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = f.Build("missing", unix.DefaultRegistry)
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Build(missing) error = %v, want NOT_FOUND", err)
	}

	_, err = f.Build("bad-command", unix.DefaultRegistry)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeUnknownCommand {
		t.Fatalf("Build(bad-command) error = %v, want UNKNOWN_COMMAND", err)
	}
	if appErr.Details["pipeline"] != "bad-command" || appErr.Details["stage"] != 1 {
		t.Errorf("details = %v", appErr.Details)
	}

	_, err = f.Build("bad-option", unix.DefaultRegistry)
	if !errors.HasCode(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("Build(bad-option) error = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestLoadWithDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "words.txt"), []byte("b\na\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "pipelines.yml")
	data := "pipelines:\n  words:\n    dir: " + dir + "\n    stages:\n      - command: cat\n        operands: [words.txt]\n      - command: sort\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := definition.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p, err := f.Build("words", unix.DefaultRegistry)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got, err := p.RunLines(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}
	if want := []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("RunLines() = %q, want %q", got, want)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := definition.Load(filepath.Join(t.TempDir(), "none.yml"))
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
