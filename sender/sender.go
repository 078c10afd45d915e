// Package sender wraps the external SMTP-submission CLI (msmtp, by
// default) behind the operations spec.md §4.E names: send, reply/forward
// composition hooks, connection testing, and from-address discovery.
package sender

import (
	"context"
	"errors"
	"strings"

	"github.com/johnae/whynot-go/compose"
	"github.com/johnae/whynot-go/executor"
	"github.com/johnae/whynot-go/model"
	"github.com/johnae/whynot-go/werrors"
	"github.com/johnae/whynot-go/wlog"
)

// Sender delivers outgoing mail via executor.Executor, the way Client
// delivers indexer operations.
type Sender struct {
	exec       executor.Executor
	configPath string
	log        wlog.Logger
}

// New builds a Sender. configPath, if non-empty, is passed as `--file`.
func New(exec executor.Executor, configPath string, log wlog.Logger) *Sender {
	return &Sender{exec: exec, configPath: configPath, log: log.Named("sender")}
}

func (s *Sender) baseArgv() []string {
	var argv []string
	if s.configPath != "" {
		argv = append(argv, "--file", s.configPath)
	}
	return argv
}

// Send serializes msg to RFC-822 and pipes it to the sender CLI, with the
// union of To/Cc/Bcc as positional recipient arguments.
func (s *Sender) Send(ctx context.Context, msg *compose.ComposableMessage) error {
	recipients := make([]string, 0, len(msg.To)+len(msg.Cc)+len(msg.Bcc))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.Cc...)
	recipients = append(recipients, msg.Bcc...)

	argv := append(s.baseArgv(), recipients...)
	raw := compose.Serialize(msg)

	if _, err := s.exec.RunWithStdin(ctx, argv, raw); err != nil {
		return asMailSendError(argv, err)
	}
	return nil
}

// Reply derives a reply from source (spec.md §4.D), fills in from/body, and
// sends it.
func (s *Sender) Reply(ctx context.Context, source model.Message, replyAll bool, from, self, body string) error {
	b := compose.DeriveReply(source, replyAll, self).From(from)
	if body != "" {
		b.Body(body)
	}
	msg, err := b.Build()
	if err != nil {
		return err
	}
	return s.Send(ctx, msg)
}

// Forward derives a forward from source, assigns to/from, and sends it.
func (s *Sender) Forward(ctx context.Context, source model.Message, to []string, from, body string) error {
	b := compose.DeriveForward(source).From(from).To(to...)
	if body != "" {
		b.Body(body)
	}
	msg, err := b.Build()
	if err != nil {
		return err
	}
	return s.Send(ctx, msg)
}

// TestConnection runs `--serverinfo`, failing iff the sender itself does.
func (s *Sender) TestConnection(ctx context.Context) error {
	argv := append(s.baseArgv(), "--serverinfo")
	if _, err := s.exec.Run(ctx, argv); err != nil {
		return asMailSendError(argv, err)
	}
	return nil
}

// GetFromAddress runs `--print-config` and parses the "from" line.
func (s *Sender) GetFromAddress(ctx context.Context) (string, error) {
	argv := append(s.baseArgv(), "--print-config")
	out, err := s.exec.RunText(ctx, argv)
	if err != nil {
		return "", asMailSendError(argv, err)
	}

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "from" {
			return fields[1], nil
		}
	}
	return "", &werrors.ConfigError{Key: "from", Err: errNoFromAddress}
}

var errNoFromAddress = errors.New(`sender config has no "from" address`)

// asMailSendError translates an executor failure (werrors.CommandFailed)
// into the sender-specific kind spec.md §7 names; other kinds (e.g.
// werrors.SSHError, when the sender runs over a shell tunnel) pass through
// unchanged.
func asMailSendError(argv []string, err error) error {
	var cf *werrors.CommandFailed
	if errors.As(err, &cf) {
		return &werrors.MailSendError{Argv: argv, Stderr: cf.Stderr, Err: cf.Err}
	}
	return err
}
