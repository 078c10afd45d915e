// Command whynotfixture converts an mbox file into a Maildir, so
// integration tests can point a real notmuch database at fixture mail
// without checking in a pre-built Maildir tree. It is a thin contract
// stub per spec.md's "Out of scope (external collaborators)": it does not
// index, tag, or otherwise understand the messages it copies.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "whynotfixture"
	app.Usage = "convert an mbox file into a Maildir for test fixtures"
	app.ExitErrHandler = func(c *cli.Context, err error) {
		cli.HandleExitCoder(err)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			cli.OsExiter(1)
		}
	}

	app.Flags = []cli.Flag{
		&cli.PathFlag{
			Name:     "mbox",
			Usage:    "Source mbox file",
			Required: true,
		},
		&cli.PathFlag{
			Name:     "maildir",
			Usage:    "Destination Maildir root (cur/new/tmp are created under it)",
			Required: true,
		},
	}

	app.Action = func(c *cli.Context) error {
		return convert(c.Path("mbox"), c.Path("maildir"))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// convert splits an mbox file on its "From " envelope lines and writes each
// message verbatim into maildirRoot/new, named with a UUID the way
// compose/message.go already mints message identifiers for this project.
func convert(mboxPath, maildirRoot string) error {
	f, err := os.Open(mboxPath)
	if err != nil {
		return fmt.Errorf("opening mbox: %w", err)
	}
	defer f.Close()

	newDir := filepath.Join(maildirRoot, "new")
	for _, dir := range []string{newDir, filepath.Join(maildirRoot, "cur"), filepath.Join(maildirRoot, "tmp")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating maildir directory %s: %w", dir, err)
		}
	}

	count := 0
	var current strings.Builder
	flush := func() error {
		if current.Len() == 0 {
			return nil
		}
		name := uuid.NewString() + ".whynotfixture"
		if err := os.WriteFile(filepath.Join(newDir, name), []byte(current.String()), 0o644); err != nil {
			return fmt.Errorf("writing message %s: %w", name, err)
		}
		current.Reset()
		count++
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "From ") && current.Len() > 0 {
			if err := flush(); err != nil {
				return err
			}
		}
		if strings.HasPrefix(line, "From ") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading mbox: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %d message(s) to %s\n", count, newDir)
	return nil
}
