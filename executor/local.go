package executor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/johnae/whynot-go/wlog"
)

// Local runs the tool as a direct child process of this one.
type Local struct {
	cfg LocalConfig
	log wlog.Logger
}

// NewLocal builds a Local executor for binary (the default name to use when
// cfg.BinaryPath is empty), such as "notmuch" or "msmtp".
func NewLocal(binary string, cfg LocalConfig, log wlog.Logger) *Local {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = binary
	}
	return &Local{cfg: cfg, log: log.Named("executor.local")}
}

var _ Executor = (*Local)(nil)

func (l *Local) Run(ctx context.Context, args []string) ([]byte, error) {
	return run(ctx, &localBuilder{cfg: l.cfg}, args, l.log, nil)
}

func (l *Local) RunText(ctx context.Context, args []string) (string, error) {
	b, err := l.Run(ctx, args)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l *Local) RunWithStdin(ctx context.Context, args []string, input []byte) ([]byte, error) {
	if input == nil {
		input = []byte{}
	}
	return run(ctx, &localBuilder{cfg: l.cfg}, args, l.log, input)
}

type localBuilder struct {
	cfg LocalConfig
}

func (b *localBuilder) describe() string { return b.cfg.BinaryPath }
func (b *localBuilder) tool() string     { return b.cfg.BinaryPath }
func (b *localBuilder) variant() string  { return "local" }

func (b *localBuilder) build(args []string) (string, []string, []string) {
	var env []string
	configPath := b.cfg.ConfigPath
	if b.cfg.DatabasePath != "" {
		env = append(env, "NOTMUCH_DATABASE="+b.cfg.DatabasePath)

		if configPath == "" {
			candidate := filepath.Join(filepath.Dir(b.cfg.DatabasePath), ".notmuch-config")
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
			}
		}
	}
	if configPath != "" {
		env = append(env, "NOTMUCH_CONFIG="+configPath)
	}

	return b.cfg.BinaryPath, args, env
}
