// Package executor implements the uniform asynchronous interface that runs
// the indexer/sender binaries either locally or over a shell tunnel
// (spec.md §4.B). Executors are read-only after construction and safe for
// concurrent use by independent callers.
package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/johnae/whynot-go/metrics"
	"github.com/johnae/whynot-go/werrors"
	"github.com/johnae/whynot-go/wlog"
)

// Executor runs a single external tool (the indexer or the sender),
// locally or over a shell tunnel, exposing three asynchronous operations.
// No operation holds a global lock; cancelling ctx kills the subprocess and
// any shell-tunnel child, leaving no orphans.
type Executor interface {
	// Run executes the tool with args and returns stdout as raw bytes.
	Run(ctx context.Context, args []string) ([]byte, error)
	// RunText is Run, decoded as a UTF-8 string.
	RunText(ctx context.Context, args []string) (string, error)
	// RunWithStdin streams input to the tool's stdin before collecting
	// stdout. input must be the complete payload; it is written then the
	// write half is closed before the process's exit is awaited.
	RunWithStdin(ctx context.Context, args []string, input []byte) ([]byte, error)
}

// commandBuilder is implemented by both variants: it turns a logical
// argument list into the concrete argv0+args to actually exec, given the
// variant's own configuration (binary path overrides, remote wrapping, …).
type commandBuilder interface {
	build(args []string) (name string, argv []string, env []string)
	describe() string
	// tool is the binary being invoked ("notmuch", "msmtp", ...), and
	// variant is "local" or "remote" — the (tool, variant) pair metrics
	// observations are grouped by.
	tool() string
	variant() string
}

// run is the shared plumbing both Local and Remote delegate to: spawn,
// optionally stream stdin, capture stdout/stderr, translate a spawn failure or
// non-zero exit into werrors.CommandFailed (local) or werrors.SSHError
// (remote). Every call is observed via metrics.ObserveExecutor
// regardless of outcome, per SPEC_FULL.md §4.N.
func run(ctx context.Context, b commandBuilder, logArgs []string, log wlog.Logger, stdin []byte) (out []byte, outErr error) {
	start := time.Now()
	defer func() {
		metrics.ObserveExecutor(b.tool(), b.variant(), executorOutcome(outErr), time.Since(start))
	}()

	name, argv, env := b.build(logArgs)

	cmd := exec.CommandContext(ctx, name, argv...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if stdin != nil {
		stdinPipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, &werrors.IOError{Op: "open stdin pipe", Err: err}
		}
		if err := cmd.Start(); err != nil {
			return nil, startError(b, err, stderr.String())
		}
		if _, err := stdinPipe.Write(stdin); err != nil {
			stdinPipe.Close()
			_ = cmd.Wait()
			return nil, &werrors.IOError{Op: "write stdin", Err: err}
		}
		if err := stdinPipe.Close(); err != nil {
			_ = cmd.Wait()
			return nil, &werrors.IOError{Op: "close stdin", Err: err}
		}
		if err := cmd.Wait(); err != nil {
			return nil, exitError(b, logArgs, err, stderr.String())
		}
		return stdout.Bytes(), nil
	}

	if err := cmd.Run(); err != nil {
		return nil, exitError(b, logArgs, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func startError(b commandBuilder, err error, stderr string) error {
	if _, ok := b.(*remoteBuilder); ok {
		return &werrors.SSHError{Host: b.describe(), Stderr: stderr, Err: err}
	}
	return &werrors.CommandFailed{Stderr: stderr, Err: err}
}

func exitError(b commandBuilder, argv []string, err error, stderr string) error {
	if _, ok := b.(*remoteBuilder); ok {
		return &werrors.SSHError{Host: b.describe(), Stderr: stderr, Err: err}
	}
	return &werrors.CommandFailed{Argv: argv, Stderr: stderr, Err: err}
}

// executorOutcome classifies a run() result for metrics.ObserveExecutor.
func executorOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case asType[*werrors.SSHError](err):
		return "ssh_error"
	case asType[*werrors.CommandFailed](err):
		return "command_failed"
	case asType[*werrors.IOError](err):
		return "io_error"
	default:
		return "error"
	}
}

func asType[T error](err error) bool {
	_, ok := err.(T)
	return ok
}
