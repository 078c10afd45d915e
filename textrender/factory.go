package textrender

import (
	"context"
	"errors"

	"github.com/johnae/whynot-go/werrors"
)

// Kind selects which Converter a factory should build.
type Kind string

const (
	KindBuiltin  Kind = "builtin"
	KindExternal Kind = "external"
	KindAuto     Kind = "auto"
)

// Select returns the converter kind picks, probing external's availability
// when relevant. external may be nil if no external tool is configured.
//
// builtin always succeeds. external must be available or Select fails.
// auto prefers external when available, falling back to builtin.
func Select(ctx context.Context, kind Kind, external *ExternalConverter) (Converter, error) {
	switch kind {
	case KindBuiltin, "":
		return BuiltinConverter{}, nil
	case KindExternal:
		if external == nil || !external.Available(ctx) {
			return nil, &werrors.ConfigError{Key: "ui.tui.text_renderer", Err: errExternalUnavailable}
		}
		return external, nil
	case KindAuto:
		if external != nil && external.Available(ctx) {
			return external, nil
		}
		return BuiltinConverter{}, nil
	default:
		return nil, &werrors.ConfigError{Key: "ui.tui.text_renderer", Err: errUnknownKind}
	}
}

var (
	errExternalUnavailable = errors.New("configured external text renderer is not available")
	errUnknownKind         = errors.New("unknown text renderer kind")
)
