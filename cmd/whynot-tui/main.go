// Command whynot-tui drives orchestrator.Orchestrator from a terminal.
// spec.md places the actual screen layout and key-code translation out of
// scope; no terminal rendering library (tcell, bubbletea, termbox, ...)
// appears anywhere in the example pack either, so this entrypoint renders
// state as plain text and reads commands line-by-line rather than in raw
// single-keystroke mode.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/johnae/whynot-go/config"
	"github.com/johnae/whynot-go/executor"
	"github.com/johnae/whynot-go/indexer"
	"github.com/johnae/whynot-go/orchestrator"
	"github.com/johnae/whynot-go/sender"
	"github.com/johnae/whynot-go/wlog"
)

func main() {
	app := cli.NewApp()
	app.Name = "whynot-tui"
	app.Usage = "terminal interface for a notmuch-backed mailbox"
	app.ExitErrHandler = func(c *cli.Context, err error) {
		cli.HandleExitCoder(err)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			cli.OsExiter(1)
		}
	}

	app.Flags = []cli.Flag{
		&cli.PathFlag{
			Name:    "config",
			Usage:   "Configuration file to use",
			EnvVars: []string{"WHYNOT_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "reading-host",
			Usage: "Remote host for the indexer, overriding mail.reading.host",
		},
		&cli.StringFlag{
			Name:  "sending-host",
			Usage: "Remote host for the sender, overriding mail.sending.host",
		},
	}

	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log := wlog.Logger{Out: wlog.WriterOutput(os.Stderr)}

	overrides := config.Overrides{}
	if v := c.String("reading-host"); v != "" {
		overrides.ReadingHost = &v
	}
	if v := c.String("sending-host"); v != "" {
		overrides.SendingHost = &v
	}

	cfg, err := config.Load(c.Path("config"), overrides)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	readingExec, err := buildExecutor(cfg.Reading, log)
	if err != nil {
		return fmt.Errorf("building reading executor: %w", err)
	}
	idx := indexer.New(readingExec, log)

	var snd *sender.Sender
	if sendingExec, err := buildExecutor(cfg.Sending, log); err == nil {
		snd = sender.New(sendingExec, cfg.Sending.ConfigPath, log)
	} else {
		log.Error("sending disabled: could not build sending executor", err)
	}

	orch := orchestrator.New(idx, snd, cfg.User.Email, cfg.General.AutoRefreshInterval, cfg.Web.ItemsPerPage, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src := newStdinEventSource(os.Stdin)
	go src.scan()

	renderer := &lineRenderer{out: os.Stdout, orch: orch}
	renderer.render()

	done := make(chan error, 1)
	go func() { done <- orch.Run(ctx, src) }()

	for {
		select {
		case err := <-done:
			return err
		case <-src.rendered:
			renderer.render()
		}
	}
}

// buildExecutor constructs a local or shell-tunnelled executor from a
// config.ServiceConfig, the way both cmd entrypoints translate the config
// layer's plain fields into the executor package's tagged-union config.
func buildExecutor(svc config.ServiceConfig, log wlog.Logger) (executor.Executor, error) {
	switch svc.Type {
	case "", "local":
		return executor.NewLocal(svc.BinaryPath, executor.LocalConfig{
			DatabasePath: svc.DatabasePath,
			ConfigPath:   svc.ConfigPath,
		}, log), nil
	case "remote":
		return executor.NewRemote(svc.BinaryPath, executor.RemoteConfig{
			Host:         svc.Host,
			User:         svc.User,
			Port:         svc.Port,
			IdentityFile: svc.IdentityFile,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown executor type %q", svc.Type)
	}
}

// stdinEventSource reads commands from stdin line-by-line. A line matching
// one of the named keys below becomes that single orchestrator.KeyEvent;
// any other line is replayed rune-by-rune (so compose text entry still
// works character-at-a-time against orchestrator.ComposeForm.InsertText)
// followed by an "enter" event for the newline the user typed.
type stdinEventSource struct {
	in       *bufio.Scanner
	ch       chan orchestrator.Event
	rendered chan struct{}
}

var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "shift+tab": true,
	"backspace": true, "ctrl+s": true, "up": true, "down": true,
}

func newStdinEventSource(r *os.File) *stdinEventSource {
	return &stdinEventSource{
		in:       bufio.NewScanner(r),
		ch:       make(chan orchestrator.Event, 16),
		rendered: make(chan struct{}, 16),
	}
}

func (s *stdinEventSource) Events() <-chan orchestrator.Event { return s.ch }

func (s *stdinEventSource) scan() {
	defer close(s.ch)
	for s.in.Scan() {
		line := s.in.Text()
		if namedKeys[line] {
			s.ch <- orchestrator.KeyEvent{Key: line}
			s.rendered <- struct{}{}
			continue
		}
		for _, r := range line {
			s.ch <- orchestrator.KeyEvent{Key: string(r)}
		}
		s.ch <- orchestrator.KeyEvent{Key: "enter"}
		s.rendered <- struct{}{}
	}
}

// lineRenderer prints the orchestrator's current state as plain text after
// each dispatched event — a stand-in for the full-screen layout spec.md
// leaves to a terminal rendering layer outside this repo's scope.
type lineRenderer struct {
	out  *os.File
	orch *orchestrator.Orchestrator
}

func (r *lineRenderer) render() {
	fmt.Fprintf(r.out, "-- %s --\n", r.orch.State())
	if status := r.orch.Status(); status != "" {
		fmt.Fprintf(r.out, "status: %s\n", status)
	}

	switch r.orch.State() {
	case orchestrator.StateEmailList:
		for i, item := range r.orch.Results() {
			marker := " "
			if i == r.orch.Selected() {
				marker = ">"
			}
			fmt.Fprintf(r.out, "%s %s\n", marker, item.Subject)
		}
	case orchestrator.StateEmailView:
		messages := r.orch.Messages()
		idx := r.orch.MessageIndex()
		if idx >= 0 && idx < len(messages) {
			msg := messages[idx]
			fmt.Fprintf(r.out, "From: %s\nSubject: %s\n", msg.Headers.From, msg.Headers.Subject)
		}
	case orchestrator.StateSearch:
		fmt.Fprintf(r.out, "query: %s\n", r.orch.Query())
	case orchestrator.StateCompose:
		if form := r.orch.Form(); form != nil {
			fmt.Fprintf(r.out, "To: %s\nSubject: %s\n%s\n", form.To, form.Subject, strings.Repeat("-", 8))
		}
	}
}
