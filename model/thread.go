package model

import (
	"bytes"
	"encoding/json"

	"github.com/johnae/whynot-go/werrors"
)

// Thread is the indexer's recursive forest of messages linked by reply
// topology: an ordered list of Levels. Node.Children is itself a Thread,
// recursively, matching the indexer's nested JSON shape.
type Thread []Level

// Level is an ordered list of sibling Nodes.
type Level []Node

// Node pairs a Message with the forest of its replies.
type Node struct {
	Message  Message
	Children Thread
}

// UnmarshalJSON accepts either a 2-element array [message, children-forest]
// or a bare message object (a childless node), per spec.md §4.A. Any other
// shape fails the decode — thread structure errors are fatal, not partial.
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &werrors.ParseError{Context: "thread node", Err: errEmptyNode}
	}

	switch trimmed[0] {
	case '{':
		var msg Message
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return &werrors.ParseError{Context: "thread node (bare message)", Err: err}
		}
		n.Message = msg
		n.Children = nil
		return nil
	case '[':
		var pair [2]json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return &werrors.ParseError{Context: "thread node (pair)", Err: err}
		}
		var msg Message
		if err := json.Unmarshal(pair[0], &msg); err != nil {
			return &werrors.ParseError{Context: "thread node message", Err: err}
		}
		var children Thread
		if err := json.Unmarshal(pair[1], &children); err != nil {
			return &werrors.ParseError{Context: "thread node children", Err: err}
		}
		n.Message = msg
		n.Children = children
		return nil
	default:
		return &werrors.ParseError{Context: "thread node", Err: errUnknownNodeShape}
	}
}

// MarshalJSON always emits the 2-element pair form, which the indexer (and
// this decoder) accepts regardless of whether Children is empty.
func (n Node) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = Thread{}
	}
	return json.Marshal([2]interface{}{n.Message, children})
}

// Flatten walks the forest depth-first, pre-order, returning every Message
// exactly once — the sequence UIs display. Spec.md §3 invariant: a message
// appears in the mail store possibly multiple times (DuplicateCount) but at
// most once in the flattened tree.
func (t Thread) Flatten() []Message {
	var out []Message
	t.flattenInto(&out)
	return out
}

func (t Thread) flattenInto(out *[]Message) {
	for _, level := range t {
		for _, node := range level {
			*out = append(*out, node.Message)
			node.Children.flattenInto(out)
		}
	}
}

var (
	errEmptyNode        = parseShapeError("empty thread node")
	errUnknownNodeShape = parseShapeError("thread node is neither an object nor a 2-element array")
)

type parseShapeError string

func (e parseShapeError) Error() string { return string(e) }
