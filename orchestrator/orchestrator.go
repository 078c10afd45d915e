// Package orchestrator implements the TUI's finite state machine (spec.md
// §4.I): it holds the current search, the currently-viewed thread, and an
// in-progress composition, and drives the indexer/compose/sender packages
// in response to events from an EventSource. It renders nothing itself.
package orchestrator

import (
	"context"
	"time"

	"github.com/johnae/whynot-go/compose"
	"github.com/johnae/whynot-go/indexer"
	"github.com/johnae/whynot-go/model"
	"github.com/johnae/whynot-go/sender"
	"github.com/johnae/whynot-go/wlog"
)

// Orchestrator is the TUI's single owned state machine. All mutations
// happen on the task running Run, per spec.md §5's shared-resource policy.
type Orchestrator struct {
	indexer *indexer.Client
	sender  *sender.Sender
	log     wlog.Logger

	selfAddress     string
	refreshInterval time.Duration
	pageSize        int

	state State
	stack []State

	width, height int

	query    string
	results  []model.SearchItem
	selected int

	thread       model.Thread
	threadID     string
	messages     []model.Message
	messageIndex int
	scroll       int

	form *ComposeForm

	status string
}

// New builds an Orchestrator. sender may be nil: sending then degrades
// gracefully with a status message, per spec.md §4.I's composition hooks.
// refreshInterval of zero disables the auto-refresh ticker.
func New(idx *indexer.Client, snd *sender.Sender, selfAddress string, refreshInterval time.Duration, pageSize int, log wlog.Logger) *Orchestrator {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Orchestrator{
		indexer:         idx,
		sender:          snd,
		selfAddress:     selfAddress,
		refreshInterval: refreshInterval,
		pageSize:        pageSize,
		log:             log,
		state:           StateEmailList,
	}
}

// State, Status, Results, Selected, Form, Messages and MessageIndex expose
// the orchestrator's held state for a rendering layer to read.
func (o *Orchestrator) State() State                { return o.state }
func (o *Orchestrator) Status() string              { return o.status }
func (o *Orchestrator) Results() []model.SearchItem { return o.results }
func (o *Orchestrator) Selected() int               { return o.selected }
func (o *Orchestrator) Form() *ComposeForm          { return o.form }
func (o *Orchestrator) Messages() []model.Message   { return o.messages }
func (o *Orchestrator) MessageIndex() int           { return o.messageIndex }
func (o *Orchestrator) Thread() model.Thread        { return o.thread }
func (o *Orchestrator) Query() string               { return o.query }

// Run reads events from src until ctx is cancelled or src's channel closes,
// dispatching each to the state machine. A ticker derived from
// refreshInterval injects synthetic RefreshTickEvents, per spec.md §4.O.
func (o *Orchestrator) Run(ctx context.Context, src EventSource) error {
	var tick <-chan time.Time
	if o.refreshInterval > 0 {
		ticker := time.NewTicker(o.refreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := o.Dispatch(ctx, ev); err != nil {
				o.log.Error("orchestrator event handling failed", err)
			}
		case <-tick:
			if err := o.Dispatch(ctx, RefreshTickEvent{}); err != nil {
				o.log.Error("auto-refresh failed", err)
			}
		}
	}
}

// Dispatch handles a single event against the current state. It is exported
// so tests (and a synchronous rendering loop) can drive the machine without
// going through Run's channel plumbing.
func (o *Orchestrator) Dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case KeyEvent:
		return o.handleKey(ctx, e.Key)
	case ResizeEvent:
		o.width, o.height = e.Width, e.Height
		return nil
	case RefreshTickEvent:
		return o.runAutoRefresh(ctx)
	default:
		return nil
	}
}

func (o *Orchestrator) handleKey(ctx context.Context, key string) error {
	if key == "esc" {
		o.pop()
		return nil
	}

	switch o.state {
	case StateEmailList:
		return o.handleEmailListKey(ctx, key)
	case StateEmailView:
		return o.handleEmailViewKey(ctx, key)
	case StateSearch:
		return o.handleSearchKey(ctx, key)
	case StateCompose:
		return o.handleComposeKey(ctx, key)
	case StateHelp:
		return nil
	default:
		return nil
	}
}

func (o *Orchestrator) handleEmailListKey(ctx context.Context, key string) error {
	switch key {
	case "enter":
		return o.openSelected(ctx)
	case "j", "down":
		if o.selected < len(o.results)-1 {
			o.selected++
		}
	case "k", "up":
		if o.selected > 0 {
			o.selected--
		}
	case "/":
		o.push(StateSearch)
	case "?":
		o.push(StateHelp)
	case "c":
		o.form = newComposeForm(ComposeNew, "")
		o.push(StateCompose)
	}
	return nil
}

func (o *Orchestrator) openSelected(ctx context.Context) error {
	if o.selected < 0 || o.selected >= len(o.results) {
		return nil
	}
	return o.loadThread(ctx, o.results[o.selected].ThreadID)
}

// loadThread fetches the thread and flattens it pre-order, per spec.md
// §4.I's "EmailList.enter → load thread → EmailView" transition.
func (o *Orchestrator) loadThread(ctx context.Context, threadID string) error {
	thread, err := o.indexer.Show(ctx, "thread:"+threadID)
	if err != nil {
		o.status = err.Error()
		return err
	}

	o.thread = thread
	o.threadID = threadID
	o.messages = thread.Flatten()
	o.messageIndex = 0
	o.scroll = 0
	o.push(StateEmailView)
	return nil
}

func (o *Orchestrator) handleEmailViewKey(_ context.Context, key string) error {
	switch key {
	case "n":
		if o.messageIndex < len(o.messages)-1 {
			o.messageIndex++
			o.scroll = 0
		}
	case "p":
		if o.messageIndex > 0 {
			o.messageIndex--
			o.scroll = 0
		}
	case "r":
		o.startCompose(ComposeReply)
	case "R":
		o.startCompose(ComposeReplyAll)
	case "f":
		o.startCompose(ComposeForward)
	}
	return nil
}

func (o *Orchestrator) currentMessage() *model.Message {
	if o.messageIndex < 0 || o.messageIndex >= len(o.messages) {
		return nil
	}
	return &o.messages[o.messageIndex]
}

// startCompose derives a reply/forward form from the message currently in
// view via §4.D, then transitions to Compose, per spec.md §4.I's
// "Composition hooks".
func (o *Orchestrator) startCompose(mode ComposeMode) {
	source := o.currentMessage()
	if source == nil {
		return
	}

	var b *compose.Builder
	switch mode {
	case ComposeReply:
		b = compose.DeriveReply(*source, false, o.selfAddress)
	case ComposeReplyAll:
		b = compose.DeriveReply(*source, true, o.selfAddress)
	case ComposeForward:
		b = compose.DeriveForward(*source)
	default:
		return
	}

	msg, err := b.From(o.selfAddress).Build()
	if err != nil {
		o.status = err.Error()
		return
	}

	o.form = formFromMessage(mode, o.threadID, msg)
	o.push(StateCompose)
}

func (o *Orchestrator) handleSearchKey(ctx context.Context, key string) error {
	switch key {
	case "enter":
		return o.runSearch(ctx)
	case "backspace":
		o.query = trimLastRune(o.query)
	default:
		o.query += key
	}
	return nil
}

func (o *Orchestrator) runSearch(ctx context.Context) error {
	result, err := o.indexer.SearchPaginated(ctx, o.query, 0, o.pageSize)
	if err != nil {
		o.status = err.Error()
		return err
	}

	o.results = result.Items
	o.selected = 0
	o.state = StateEmailList
	o.stack = nil
	return nil
}

// runAutoRefresh re-runs the current search in the background, per spec.md
// §4.O. It is a no-op when there is no active query or the state machine
// is mid-composition (a refresh must never clobber an in-progress draft).
func (o *Orchestrator) runAutoRefresh(ctx context.Context) error {
	if o.query == "" || o.state == StateCompose {
		return nil
	}

	result, err := o.indexer.SearchPaginated(ctx, o.query, 0, o.pageSize)
	if err != nil {
		o.log.Debugf("auto-refresh search failed: %v", err)
		return nil
	}

	o.results = result.Items
	return nil
}

func (o *Orchestrator) handleComposeKey(ctx context.Context, key string) error {
	if o.form == nil {
		o.state = StateEmailList
		return nil
	}

	switch key {
	case "ctrl+s":
		return o.sendCompose(ctx)
	case "tab":
		o.form.NextField()
	case "shift+tab":
		o.form.PrevField()
	case "backspace":
		o.form.Backspace()
	case "enter":
		o.form.InsertText("\n")
	default:
		o.form.InsertText(key)
	}
	return nil
}

// sendCompose routes the held form through §4.E. An unconfigured sender
// degrades to a status message rather than an error, per spec.md §4.I.
func (o *Orchestrator) sendCompose(ctx context.Context) error {
	if o.sender == nil {
		o.status = "no sender configured"
		return nil
	}

	msg, err := o.form.build(o.selfAddress)
	if err != nil {
		o.status = err.Error()
		return err
	}

	if err := o.sender.Send(ctx, msg); err != nil {
		o.status = err.Error()
		return err
	}

	o.form = nil
	o.state = StateEmailList
	o.stack = nil
	o.status = "sent"
	return nil
}

func (o *Orchestrator) push(s State) {
	o.stack = append(o.stack, o.state)
	o.state = s
}

func (o *Orchestrator) pop() {
	if len(o.stack) == 0 {
		return
	}
	o.state = o.stack[len(o.stack)-1]
	o.stack = o.stack[:len(o.stack)-1]
}
