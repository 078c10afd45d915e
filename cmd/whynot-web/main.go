// Command whynot-web serves the HTTP surface of spec.md §4.J: mail
// listing, thread view, the sandboxed iframe host, and compose/reply/
// forward forms, over the same indexer/sender CLIs the TUI uses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/johnae/whynot-go/config"
	"github.com/johnae/whynot-go/executor"
	"github.com/johnae/whynot-go/indexer"
	"github.com/johnae/whynot-go/sender"
	"github.com/johnae/whynot-go/web"
	"github.com/johnae/whynot-go/wlog"
)

func main() {
	app := cli.NewApp()
	app.Name = "whynot-web"
	app.Usage = "web interface for a notmuch-backed mailbox"
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
			Name:  "bind",
			Usage: "Address to listen on, overriding ui.web.bind",
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
	if v := c.String("bind"); v != "" {
		overrides.WebBind = &v
	}
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

	srv := web.New(idx, snd, cfg, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return srv.ListenAndServe(ctx)
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
