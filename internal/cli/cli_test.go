package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const taillardSample = `# 2x2 sample
2 2
0 3 1 2
1 4 0 1
`

func writeInstanceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte(taillardSample), 0o644); err != nil {
		t.Fatalf("write instance file: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// what was written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestSolveCommand(t *testing.T) {
	path := writeInstanceFile(t)

	var err error
	output := captureStdout(t, func() {
		_, err = runCLI(t, "solve", path, "--rule", "est")
	})
	if err != nil {
		t.Fatalf("solve error: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Makespan: 6") {
		t.Errorf("expected 'Makespan: 6' in output, got: %s", output)
	}
	if !strings.Contains(output, "MACHINE") {
		t.Errorf("expected schedule table in output, got: %s", output)
	}
}

func TestSolveCommand_JSON(t *testing.T) {
	path := writeInstanceFile(t)

	var err error
	output := captureStdout(t, func() {
		_, err = runCLI(t, "solve", path, "--rule", "est", "--json")
	})
	if err != nil {
		t.Fatalf("solve --json error: %v", err)
	}
	if !strings.Contains(output, `"makespan": 6`) {
		t.Errorf("expected makespan 6 in JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"schedule"`) {
		t.Errorf("expected schedule entries in JSON output, got: %s", output)
	}
}

func TestSolveCommand_Expression(t *testing.T) {
	path := writeInstanceFile(t)

	var err error
	output := captureStdout(t, func() {
		_, err = runCLI(t, "solve", path, "--expression", "op.duration")
	})
	if err != nil {
		t.Fatalf("solve --expression error: %v", err)
	}
	if !strings.Contains(output, "Rule: expression") {
		t.Errorf("expected expression rule in output, got: %s", output)
	}
}

func TestSolveCommand_UnknownRule(t *testing.T) {
	path := writeInstanceFile(t)
	_, err := runCLI(t, "solve", path, "--rule", "simulated_annealing")
	if err == nil {
		t.Fatal("expected error for unknown rule")
	}
}

func TestSolveCommand_MissingFile(t *testing.T) {
	_, err := runCLI(t, "solve", "nonexistent.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInspectCommand(t *testing.T) {
	path := writeInstanceFile(t)

	var err error
	output := captureStdout(t, func() {
		_, err = runCLI(t, "inspect", path)
	})
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"Jobs:        2", "Machines:    2", "Operations:  4", "MACHINE"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestBenchCommand(t *testing.T) {
	path := writeInstanceFile(t)

	var err error
	output := captureStdout(t, func() {
		_, err = runCLI(t, "bench", path)
	})
	if err != nil {
		t.Fatalf("bench error: %v", err)
	}
	for _, want := range []string{"RULE", "fifo", "spt", "est", "*"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in bench output, got: %s", want, output)
		}
	}
}

func TestBenchCommand_SelectedRules(t *testing.T) {
	path := writeInstanceFile(t)

	var err error
	output := captureStdout(t, func() {
		_, err = runCLI(t, "bench", path, "--rules", "spt,est")
	})
	if err != nil {
		t.Fatalf("bench --rules error: %v", err)
	}
	if strings.Contains(output, "fifo") {
		t.Errorf("did not expect fifo in output, got: %s", output)
	}
	if !strings.Contains(output, "est") {
		t.Errorf("expected est in output, got: %s", output)
	}
}
