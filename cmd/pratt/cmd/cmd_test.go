package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI in an empty working directory so no config file
// is picked up unless the test writes one
func run(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	if dir == "" {
		dir = t.TempDir()
	}
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("PRATT_CONFIG", "")

	cfgFile, grammarFile, logLevel, verbose = "", "", "", false
	evalRemote, evalRecord = "", false
	treePretty, treeStats, treeEval = false, false, false
	exportFormat = "auto"
	historyLimit, historyMode, historyFailed, historyOlderThan = 20, "", false, 0

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	if err != nil {
		reportError(&errOut, err)
	}
	return out.String(), errOut.String(), err
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "2+3*4"}, "14\n"},
		{[]string{"eval", "2", "^", "3", "^", "2"}, "512\n"},
		{[]string{"eval", "--", "-2^2"}, "4\n"},
		{[]string{"eval", "--", "-12"}, "-12\n"},
		{[]string{"eval", "if 1 < 2 then 10 else 20 end"}, "10\n"},
		{[]string{"eval", "if false then 1 end"}, "nil\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			got, stderr, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("eval error = %v\n%s", err, stderr)
			}
			if got != tt.want {
				t.Errorf("eval = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalCommandPrintsCaret(t *testing.T) {
	_, stderr, err := run(t, "", "eval", "(1+2")
	if err == nil {
		t.Fatal("eval succeeded, want error")
	}
	if !strings.Contains(stderr, "(1+2\n    ^\n") {
		t.Errorf("stderr lacks the caret diagram:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Error [UNEXPECTED_TOKEN]") {
		t.Errorf("stderr lacks the error code:\n%s", stderr)
	}
}

func TestTreeCommand(t *testing.T) {
	got, _, err := run(t, "", "tree", "--pretty", "--stats", "--eval", "--", "-3+4")
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	want := "(+ (- 3) 4)\n(+\n  (-\n    3)\n  4)\nnodes: 4, depth: 3\n= 1\n"
	if got != want {
		t.Errorf("tree output = %q, want %q", got, want)
	}
}

func TestTokensCommand(t *testing.T) {
	got, _, err := run(t, "", "tokens", "1+2")
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	for _, want := range []string{"OFFSET", "operator", "digit"} {
		if !strings.Contains(got, want) {
			t.Errorf("tokens output lacks %q:\n%s", want, got)
		}
	}

	_, _, err = run(t, "", "tokens", "1 # 2")
	if err == nil {
		t.Error("tokens accepted an unknown character")
	}
}

func TestGrammarCommands(t *testing.T) {
	dir := t.TempDir()

	yaml, _, err := run(t, dir, "grammar", "export", "--format", "yaml")
	if err != nil {
		t.Fatalf("grammar export error = %v", err)
	}
	if !strings.Contains(yaml, "name: arithmetic") {
		t.Errorf("YAML export lacks the grammar name:\n%s", yaml)
	}

	path := filepath.Join(dir, "grammar.toml")
	if _, _, err := run(t, dir, "grammar", "export", path); err != nil {
		t.Fatalf("grammar export to file error = %v", err)
	}

	got, _, err := run(t, dir, "grammar", "validate", path)
	if err != nil {
		t.Fatalf("grammar validate error = %v", err)
	}
	if !strings.HasSuffix(got, ": ok (10 operators, 20 lexemes)\n") {
		t.Errorf("grammar validate = %q", got)
	}

	got, _, err = run(t, dir, "--grammar", path, "eval", "2*(3+4)")
	if err != nil || got != "14\n" {
		t.Errorf("eval with exported grammar = %q, %v, want 14", got, err)
	}

	got, _, err = run(t, dir, "grammar", "show")
	if err != nil {
		t.Fatalf("grammar show error = %v", err)
	}
	if !strings.Contains(got, "Grammar: arithmetic") || !strings.Contains(got, "add / pos") {
		t.Errorf("grammar show output:\n%s", got)
	}
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	config := fmt.Sprintf("[history]\nenabled = true\npath = %q\n", filepath.Join(dir, "history.db"))
	if err := os.WriteFile(filepath.Join(dir, "pratt.toml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := run(t, dir, "eval", "--record", "6*7"); err != nil {
		t.Fatalf("eval --record error = %v", err)
	}
	run(t, dir, "eval", "--record", "1/0")

	got, _, err := run(t, dir, "history", "list")
	if err != nil {
		t.Fatalf("history list error = %v", err)
	}
	for _, want := range []string{"6*7", "42", "DIVISION_BY_ZERO"} {
		if !strings.Contains(got, want) {
			t.Errorf("history list lacks %q:\n%s", want, got)
		}
	}

	got, _, err = run(t, dir, "history", "list", "--failed")
	if err != nil || strings.Contains(got, "6*7") {
		t.Errorf("history list --failed = %q, %v", got, err)
	}

	got, _, err = run(t, dir, "history", "prune", "--older-than", "1h")
	if err != nil || got != "Deleted 0 evaluations older than 1h0m0s\n" {
		t.Errorf("history prune = %q, %v", got, err)
	}

	if _, _, err := run(t, "", "history", "list"); err == nil {
		t.Error("history list without history enabled succeeded")
	}
}

func TestVersionCommand(t *testing.T) {
	got, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(got, "pratt 1.0.0") || !strings.Contains(got, "engine") {
		t.Errorf("version output = %q", got)
	}
}
