// Package indexer implements the typed operations spec.md §4.C exposes over
// an executor.Executor: search, show, tag, refresh, insert, config
// get/set, list tags, and raw-part extraction.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnae/whynot-go/executor"
	"github.com/johnae/whynot-go/metrics"
	"github.com/johnae/whynot-go/model"
	"github.com/johnae/whynot-go/werrors"
	"github.com/johnae/whynot-go/wlog"
)

// observeOp records one indexer operation's wall-clock duration, per
// SPEC_FULL.md §4.N. Called via defer at the top of each Client method.
func observeOp(op string, start time.Time) {
	metrics.ObserveIndexerOp(op, time.Since(start))
}

// Client wraps an executor.Executor with the indexer's CLI vocabulary. It
// holds no mutable state and is safe to share across concurrent requests —
// the executor itself is read-only after construction.
type Client struct {
	exec executor.Executor
	log  wlog.Logger
}

// New builds an indexer Client over exec.
func New(exec executor.Executor, log wlog.Logger) *Client {
	return &Client{exec: exec, log: log.Named("indexer")}
}

// xapianErrorMarkers are substrings notmuch prints to stderr when the
// Xapian database itself is the problem (locked by another writer, corrupt,
// unreadable) rather than a bad query or argument.
var xapianErrorMarkers = []string{
	"Xapian::DatabaseLockError",
	"Xapian::DatabaseCorruptError",
	"A Xapian exception occurred",
	"Cannot open Xapian database",
}

// classifyExecErr reclassifies a werrors.CommandFailed whose stderr names a
// Xapian database problem as a werrors.DatabaseError, so callers can tell a
// locked/corrupt database apart from an ordinary bad-query failure
// (spec.md §7's "database" kind).
func classifyExecErr(err error) error {
	var cmd *werrors.CommandFailed
	if !errors.As(err, &cmd) {
		return err
	}
	for _, marker := range xapianErrorMarkers {
		if strings.Contains(cmd.Stderr, marker) {
			return &werrors.DatabaseError{Msg: strings.TrimSpace(cmd.Stderr), Err: cmd}
		}
	}
	return err
}

func (c *Client) run(ctx context.Context, argv []string) ([]byte, error) {
	out, err := c.exec.Run(ctx, argv)
	return out, classifyExecErr(err)
}

func (c *Client) runText(ctx context.Context, argv []string) (string, error) {
	out, err := c.exec.RunText(ctx, argv)
	return out, classifyExecErr(err)
}

func (c *Client) runWithStdin(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
	out, err := c.exec.RunWithStdin(ctx, argv, stdin)
	return out, classifyExecErr(err)
}

// Search runs `notmuch search --format=json <q>`.
func (c *Client) Search(ctx context.Context, query string) ([]model.SearchItem, error) {
	defer observeOp("search", time.Now())
	out, err := c.run(ctx, []string{"search", "--format=json", query})
	if err != nil {
		return nil, err
	}
	var items []model.SearchItem
	if err := json.Unmarshal(out, &items); err != nil {
		return nil, &werrors.ParseError{Context: "search", Err: err}
	}
	return items, nil
}

// SearchPaginatedResult is the result of SearchPaginated: Total is nil if
// the companion `count` invocation failed (spec.md §4.C: count failure does
// not fail the overall operation).
type SearchPaginatedResult struct {
	Items []model.SearchItem
	Total *int
}

// SearchPaginated runs `search --format=json --offset=<o> --limit=<l> <q>`
// concurrently with a separate `count <q>` invocation for the total. A
// count failure is swallowed; a search failure is fatal.
func (c *Client) SearchPaginated(ctx context.Context, query string, offset, limit int) (SearchPaginatedResult, error) {
	defer observeOp("search_paginated", time.Now())
	var items []model.SearchItem
	var total *int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := c.run(gctx, []string{
			"search", "--format=json",
			fmt.Sprintf("--offset=%d", offset),
			fmt.Sprintf("--limit=%d", limit),
			query,
		})
		if err != nil {
			return err
		}
		if err := json.Unmarshal(out, &items); err != nil {
			return &werrors.ParseError{Context: "search_paginated", Err: err}
		}
		return nil
	})

	// The count call runs on its own context (not gctx) so a count
	// failure never cancels the in-flight search, and vice versa.
	countCh := make(chan *int, 1)
	go func() {
		n, err := c.Count(ctx, query)
		if err != nil {
			c.log.Debugf("count failed for query %q: %v", query, err)
			countCh <- nil
			return
		}
		countCh <- &n
	}()

	if err := g.Wait(); err != nil {
		return SearchPaginatedResult{}, err
	}
	total = <-countCh

	return SearchPaginatedResult{Items: items, Total: total}, nil
}

// Count runs `count <q>` and parses the single integer line it prints.
func (c *Client) Count(ctx context.Context, query string) (int, error) {
	defer observeOp("count", time.Now())
	out, err := c.runText(ctx, []string{"count", query})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, &werrors.ParseError{Context: "count", Err: err}
	}
	return n, nil
}

// Show runs `show --format=json --include-html --entire-thread <q>`. query
// is typically "thread:<id>".
func (c *Client) Show(ctx context.Context, query string) (model.Thread, error) {
	defer observeOp("show", time.Now())
	out, err := c.run(ctx, []string{"show", "--format=json", "--include-html", "--entire-thread", query})
	if err != nil {
		return nil, err
	}
	var thread model.Thread
	if err := json.Unmarshal(out, &thread); err != nil {
		return nil, &werrors.ParseError{Context: "show", Err: err}
	}
	return thread, nil
}

// TagOp is a single tag mutation, serialized as "+name"/"-name".
type TagOp struct {
	Name string
	Add  bool
}

// AddTag builds a TagOp adding name.
func AddTag(name string) TagOp { return TagOp{Name: name, Add: true} }

// RemoveTag builds a TagOp removing name.
func RemoveTag(name string) TagOp { return TagOp{Name: name, Add: false} }

func (op TagOp) token() string {
	if op.Add {
		return "+" + op.Name
	}
	return "-" + op.Name
}

// Tag runs `tag <+t…/-t…> -- <q>`, a no-op if ops is empty. Submission
// order of ops is preserved in the argv.
func (c *Client) Tag(ctx context.Context, query string, ops []TagOp) error {
	if len(ops) == 0 {
		return nil
	}
	defer observeOp("tag", time.Now())
	argv := make([]string, 0, len(ops)+3)
	argv = append(argv, "tag")
	for _, op := range ops {
		argv = append(argv, op.token())
	}
	argv = append(argv, "--", query)

	_, err := c.run(ctx, argv)
	return err
}

// Refresh runs `new`, rescanning the backing mail store.
func (c *Client) Refresh(ctx context.Context) error {
	defer observeOp("refresh", time.Now())
	_, err := c.run(ctx, []string{"new"})
	return err
}

// Insert runs `insert [--folder=<f>] [+t…]` with msg piped on stdin,
// returning the new message's id.
func (c *Client) Insert(ctx context.Context, msg []byte, folder string, tags []string) (string, error) {
	defer observeOp("insert", time.Now())
	argv := []string{"insert"}
	if folder != "" {
		argv = append(argv, "--folder="+folder)
	}
	for _, t := range tags {
		argv = append(argv, "+"+t)
	}

	out, err := c.runWithStdin(ctx, argv, msg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ConfigGet runs `config get <key>`.
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	defer observeOp("config_get", time.Now())
	out, err := c.runText(ctx, []string{"config", "get", key})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ConfigSet runs `config set <key> <value>`.
func (c *Client) ConfigSet(ctx context.Context, key, value string) error {
	defer observeOp("config_set", time.Now())
	_, err := c.run(ctx, []string{"config", "set", key, value})
	return err
}

// ListTags runs `search --output=tags --format=json '*'`.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	defer observeOp("list_tags", time.Now())
	out, err := c.run(ctx, []string{"search", "--output=tags", "--format=json", "*"})
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(trimmed), &tags); err != nil {
		return nil, &werrors.ParseError{Context: "list_tags", Err: err}
	}
	return tags, nil
}

// Part runs `show --format=raw --part=<n> <msg_id>`, returning the part's
// raw bytes — the only supported way to fetch attachment content (spec.md
// §9: the legacy base64-from-JSON path is unused by this implementation).
func (c *Client) Part(ctx context.Context, msgID string, partID int) ([]byte, error) {
	defer observeOp("part", time.Now())
	return c.run(ctx, []string{"show", "--format=raw", fmt.Sprintf("--part=%d", partID), msgID})
}
