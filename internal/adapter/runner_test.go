package adapter

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestLocalRunner(t *testing.T) {
	requireShell(t)
	r := NewLocalRunner()

	t.Run("stdout", func(t *testing.T) {
		res, err := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "echo hello"}})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.ExitCode != 0 || string(res.Stdout) != "hello\n" {
			t.Errorf("Run() = %+v", res)
		}
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		res, err := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", res.ExitCode)
		}
		if string(res.Stderr) != "oops\n" {
			t.Errorf("Stderr = %q, want oops", res.Stderr)
		}
	})

	t.Run("missing program", func(t *testing.T) {
		_, err := r.Run(context.Background(), Command{Program: "iqt-definitely-not-installed"})
		if err == nil {
			t.Fatal("Run() expected error for missing program")
		}
	})

	t.Run("timeout kills process", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		start := time.Now()
		_, err := r.Run(ctx, Command{Program: "sh", Args: []string{"-c", "sleep 5"}})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Run() error = %v, want deadline exceeded", err)
		}
		if time.Since(start) > 3*time.Second {
			t.Error("Run() did not stop at the deadline")
		}
	})
}
