// Package main provides tests for the slq CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/slq/internal/cli"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "", "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "slq v") {
		t.Errorf("version output should contain 'slq v', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "", "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"tokens", "parse", "fmt", "check", "completion", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestTokensCommandJSON(t *testing.T) {
	output, err := run(t, "", "tokens", "-o", "json", "-e", "@db.users | .name")
	if err != nil {
		t.Fatalf("tokens command error = %v", err)
	}

	var result struct {
		Tokens []struct {
			Kind    string `json:"kind"`
			Literal string `json:"literal"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("tokens output is not JSON: %v\n%s", err, output)
	}

	want := []string{"DATASOURCE", "SEL", "'|'", "SEL", "EOF"}
	if len(result.Tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %s", len(result.Tokens), len(want), output)
	}
	for i, kind := range want {
		if result.Tokens[i].Kind != kind {
			t.Errorf("token %d kind = %q, want %q", i, result.Tokens[i].Kind, kind)
		}
	}
}

func TestParseCommandText(t *testing.T) {
	output, err := run(t, "", "parse", "-o", "text", "--color", "never", "-e", "where(.a > 1)")
	if err != nil {
		t.Fatalf("parse command error = %v", err)
	}
	for _, want := range []string{"StmtList", "FuncCall where", "BinaryExpr >", "Selector .a", "Literal int 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("parse output should contain %q, got: %s", want, output)
		}
	}
}

func TestParseCommandError(t *testing.T) {
	output, err := run(t, "", "parse", "-o", "text", "--color", "never", "-e", ".[1:")
	if err == nil {
		t.Fatal("parse of invalid input should fail")
	}
	if !strings.Contains(output, "<inline>:1:5:") {
		t.Errorf("error output should carry the position, got: %s", output)
	}
}

func TestFmtCommandStdin(t *testing.T) {
	output, err := run(t, "@db.tbl|.name ,.age|WHERE( .age>18 )", "fmt", "-o", "text")
	if err != nil {
		t.Fatalf("fmt command error = %v", err)
	}
	if output != "@db.tbl | .name, .age | where(.age > 18)\n" {
		t.Errorf("unexpected fmt output: %q", output)
	}
}

func TestFmtCommandJoinFlag(t *testing.T) {
	output, err := run(t, "", "fmt", "-o", "text", "--join", "JOIN", "-e", "@a, @b | j(.id)")
	if err != nil {
		t.Fatalf("fmt command error = %v", err)
	}
	if output != "@a, @b | JOIN(.id)\n" {
		t.Errorf("unexpected fmt output: %q", output)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "good.slq"), []byte("@db.users | .name"), 0o600); err != nil {
		t.Fatal(err)
	}

	output, err := run(t, "", "check", "-o", "text", "--color", "never", dir)
	if err != nil {
		t.Fatalf("check command error = %v\n%s", err, output)
	}
	if !strings.Contains(output, "1 file(s) checked, 0 failed") {
		t.Errorf("unexpected check output: %s", output)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.slq"), []byte("@db | .[x]"), 0o600); err != nil {
		t.Fatal(err)
	}
	output, err = run(t, "", "check", "-o", "text", "--color", "never", dir)
	if err == nil {
		t.Fatal("check should fail when a file does not parse")
	}
	if !strings.Contains(output, "bad.slq:1:9:") {
		t.Errorf("check output should locate the error, got: %s", output)
	}
}

func TestInvalidOutputFlag(t *testing.T) {
	_, err := run(t, "", "tokens", "-o", "xml", "-e", ".a")
	if err == nil || !strings.Contains(err.Error(), "invalid output") {
		t.Errorf("expected invalid output error, got %v", err)
	}
}
