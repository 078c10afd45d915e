package sender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnae/whynot-go/compose"
	"github.com/johnae/whynot-go/model"
	"github.com/johnae/whynot-go/werrors"
	"github.com/johnae/whynot-go/wlog"
)

type fakeExecutor struct {
	calls  [][]string
	stdins [][]byte
	text   string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, args []string) ([]byte, error) {
	f.calls = append(f.calls, args)
	return []byte(f.text), f.err
}

func (f *fakeExecutor) RunText(ctx context.Context, args []string) (string, error) {
	b, err := f.Run(ctx, args)
	return string(b), err
}

func (f *fakeExecutor) RunWithStdin(ctx context.Context, args []string, input []byte) ([]byte, error) {
	f.stdins = append(f.stdins, input)
	return f.Run(ctx, args)
}

func newSender(f *fakeExecutor, configPath string) *Sender {
	return New(f, configPath, wlog.Logger{Out: wlog.NopOutput{}})
}

func buildMessage(t *testing.T) *compose.ComposableMessage {
	t.Helper()
	msg, err := compose.NewBuilder().
		From("me@x").To("a@x").Cc("b@x").Bcc("c@x").
		Subject("hi").Body("body").Build()
	require.NoError(t, err)
	return msg
}

func TestSendPassesRecipientsAndStdin(t *testing.T) {
	f := &fakeExecutor{}
	s := newSender(f, "")
	msg := buildMessage(t)

	require.NoError(t, s.Send(context.Background(), msg))
	require.Equal(t, []string{"a@x", "b@x", "c@x"}, f.calls[0])
	require.Contains(t, string(f.stdins[0]), "Subject: hi")
}

func TestSendPrependsConfigFileFlag(t *testing.T) {
	f := &fakeExecutor{}
	s := newSender(f, "/etc/msmtprc")
	msg := buildMessage(t)

	require.NoError(t, s.Send(context.Background(), msg))
	require.Equal(t, []string{"--file", "/etc/msmtprc", "a@x", "b@x", "c@x"}, f.calls[0])
}

func TestSendTranslatesCommandFailedToMailSendError(t *testing.T) {
	f := &fakeExecutor{err: &werrors.CommandFailed{Stderr: "bad recipient"}}
	s := newSender(f, "")
	msg := buildMessage(t)

	err := s.Send(context.Background(), msg)
	require.Error(t, err)
	var mse *werrors.MailSendError
	require.ErrorAs(t, err, &mse)
	require.Equal(t, "bad recipient", mse.Stderr)
}

func TestTestConnectionRunsServerinfo(t *testing.T) {
	f := &fakeExecutor{}
	s := newSender(f, "")
	require.NoError(t, s.TestConnection(context.Background()))
	require.Equal(t, []string{"--serverinfo"}, f.calls[0])
}

func TestGetFromAddressParsesPrintConfig(t *testing.T) {
	f := &fakeExecutor{text: "account default\nhost smtp.example.com\nfrom someone@example.com\n"}
	s := newSender(f, "")
	addr, err := s.GetFromAddress(context.Background())
	require.NoError(t, err)
	require.Equal(t, "someone@example.com", addr)
}

func TestGetFromAddressErrorsWhenMissing(t *testing.T) {
	f := &fakeExecutor{text: "account default\n"}
	s := newSender(f, "")
	_, err := s.GetFromAddress(context.Background())
	require.Error(t, err)
}

func sourceMessage() model.Message {
	return model.Message{
		ID:           "<m1@x>",
		DateRelative: "today",
		Headers: model.Headers{
			Subject: "Hello",
			From:    "alice@x",
		},
	}
}

func TestReplySendsThreadedMessage(t *testing.T) {
	f := &fakeExecutor{}
	s := newSender(f, "")

	err := s.Reply(context.Background(), sourceMessage(), false, "me@x", "me@x", "reply body")
	require.NoError(t, err)
	require.Equal(t, []string{"alice@x"}, f.calls[0])
	require.Contains(t, string(f.stdins[0]), "Subject: Re: Hello")
}

func TestForwardSendsToNewRecipients(t *testing.T) {
	f := &fakeExecutor{}
	s := newSender(f, "")

	err := s.Forward(context.Background(), sourceMessage(), []string{"new@x"}, "me@x", "fwd body")
	require.NoError(t, err)
	require.Equal(t, []string{"new@x"}, f.calls[0])
	require.Contains(t, string(f.stdins[0]), "Subject: Fwd: Hello")
}
