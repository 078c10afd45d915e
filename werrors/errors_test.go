package werrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnae/whynot-go/werrors"
)

func TestFieldsWalksWrappedChain(t *testing.T) {
	inner := &werrors.CommandFailed{Argv: []string{"notmuch", "search"}, Stderr: "boom\nmore"}
	outer := &werrors.ParseError{Context: "search", Err: inner}

	fields := werrors.Fields(outer)
	require.Equal(t, "search", fields["context"])
	require.Equal(t, []string{"notmuch", "search"}, fields["argv"])
	require.Equal(t, "boom\nmore", fields["stderr"])
}

func TestFieldsOuterWins(t *testing.T) {
	inner := &werrors.ConfigError{Key: "inner-key", Err: errors.New("bad")}
	outer := &werrors.ConfigError{Key: "outer-key", Err: inner}

	fields := werrors.Fields(outer)
	require.Equal(t, "outer-key", fields["key"])
}

func TestCommandFailedMessageUsesFirstStderrLine(t *testing.T) {
	err := &werrors.CommandFailed{Argv: []string{"notmuch", "tag"}, Stderr: "permission denied\nextra context"}
	require.Contains(t, err.Error(), "permission denied")
	require.NotContains(t, err.Error(), "extra context")
}

func TestInvalidInputHasNoUnwrap(t *testing.T) {
	err := &werrors.InvalidInput{Reason: "no recipients"}
	require.Equal(t, "invalid input: no recipients", err.Error())
}
