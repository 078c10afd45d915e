package orchestrator

// Event is anything the orchestrator's state machine can react to: a key
// press, a terminal resize, or a synthetic auto-refresh tick (spec.md §4.I,
// §4.O). The state machine never special-cases RefreshTickEvent's origin —
// it is dispatched through the same handling path as key/resize events.
type Event interface {
	isEvent()
}

// KeyEvent is a single key press, named the way the TUI layer resolves it
// ("enter", "esc", "ctrl+s", "n", "p", or a single printable rune as a
// one-character string).
type KeyEvent struct {
	Key string
}

// ResizeEvent reports a new terminal size.
type ResizeEvent struct {
	Width  int
	Height int
}

// RefreshTickEvent is emitted by the orchestrator's own ticker, not by the
// EventSource, per spec.md §4.O's auto-refresh behavior.
type RefreshTickEvent struct{}

func (KeyEvent) isEvent()         {}
func (ResizeEvent) isEvent()      {}
func (RefreshTickEvent) isEvent() {}

// EventSource feeds the orchestrator's run loop. Implementations translate
// whatever terminal library is in use (key codes, SIGWINCH, …) into Events
// on the returned channel; closing the channel ends the run loop.
type EventSource interface {
	Events() <-chan Event
}
