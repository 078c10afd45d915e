package orchestrator

// State is a node of the TUI's finite state machine, spec.md §4.I.
type State int

const (
	StateEmailList State = iota
	StateEmailView
	StateSearch
	StateCompose
	StateHelp
)

func (s State) String() string {
	switch s {
	case StateEmailList:
		return "EmailList"
	case StateEmailView:
		return "EmailView"
	case StateSearch:
		return "Search"
	case StateCompose:
		return "Compose"
	case StateHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ComposeMode identifies how a ComposeForm was started.
type ComposeMode int

const (
	ComposeNew ComposeMode = iota
	ComposeReply
	ComposeReplyAll
	ComposeForward
)
