package e2e

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildFolioBinary builds the folio binary in the specified directory and returns its path.
// It handles the build command execution and error checking.
func buildFolioBinary(t *testing.T, dir string) string {
	t.Helper()
	folioBin := filepath.Join(dir, "folio.exe")
	buildCmd := exec.Command("go", "build", "-o", folioBin, "../../cmd/folio")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build folio: %v\n%s", err, string(out))
	}
	return folioBin
}

// runCmd runs a command and fails the test on a non-zero exit.
func runCmd(t *testing.T, dir string, input *strings.Reader, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if input != nil {
		cmd.Stdin = input
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	fmt.Printf("[%s] Executing: %s %v\n", dir, name, args)
	if err := cmd.Run(); err != nil {
		t.Fatalf("Command %s %v failed in %s: %v", name, args, dir, err)
	}
}

// runCmdOutput runs a command and returns its stdout, failing on a non-zero exit.
func runCmdOutput(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("Command %s %v failed in %s: %v", name, args, dir, err)
	}
	return string(out)
}

// runCmdOutputAllowFail runs a command and returns its stdout regardless of
// the exit code. Only a failure to launch fails the test.
func runCmdOutputAllowFail(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Command %s %v did not run: %v", name, args, err)
		}
	}
	return string(out)
}

// runCmdExit runs a command and returns its exit code instead of failing.
func runCmdExit(t *testing.T, dir string, name string, args ...string) int {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	fmt.Printf("[%s] Executing: %s %v\n%s", dir, name, args, out)
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	t.Fatalf("Command %s %v did not run: %v", name, args, err)
	return -1
}
