package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
	"time"
)

var (
	// ErrNotFound is returned, wrapped, when the executable cannot be resolved.
	ErrNotFound = errors.New("process: executable not found")
	// ErrNotExecutable is returned, wrapped, when the file exists but may not be run.
	ErrNotExecutable = errors.New("process: permission denied")
)

const defaultGracePeriod = 5 * time.Second

// Run starts cmd, waits for it and returns the captured output. Cancelling
// ctx sends SIGTERM to the process group and SIGKILL once the grace period
// ends. A non-zero exit returns the Result together with an error; an
// executable that cannot be found wraps ErrNotFound, one without execute
// permission wraps ErrNotExecutable.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	var stdout, stderr bytes.Buffer
	c := build(ctx, cmd, &stdout, &stderr)

	start := time.Now()
	runErr := c.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	return result, classify(ctx, cmd.Binary, result.ExitCode, runErr)
}

func build(ctx context.Context, cmd Command, stdout, stderr *bytes.Buffer) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // binaries come from user settings
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	c.Stdout = stdout
	c.Stderr = stderr

	// ffmpeg and whisper-cli may fork helpers, so the whole group is signalled.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.GracePeriod
	if c.WaitDelay == 0 {
		c.WaitDelay = defaultGracePeriod
	}
	return c
}

func classify(ctx context.Context, binary string, exitCode int, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %v", ErrNotExecutable, binary, err)
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, binary, err)
	case ctx.Err() != nil:
		return fmt.Errorf("process: %s stopped: %w", binary, ctx.Err())
	default:
		return fmt.Errorf("process: %s exited with code %d: %w", binary, exitCode, err)
	}
}

// LookPath resolves binary, a path or a bare name on PATH.
func LookPath(binary string) (string, error) {
	p, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotFound, binary, err)
	}
	return p, nil
}
