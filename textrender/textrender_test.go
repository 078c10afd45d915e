package textrender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errProbeUnavailable = errors.New("tool not found")

type fakeExecutor struct {
	out      string
	err      error
	probeOK  bool
	lastArgv []string
	stdin    []byte
}

func (f *fakeExecutor) Run(_ context.Context, args []string) ([]byte, error) {
	if !f.probeOK {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errProbeUnavailable
	}
	return []byte(f.out), nil
}

func (f *fakeExecutor) RunText(ctx context.Context, args []string) (string, error) {
	b, err := f.Run(ctx, args)
	return string(b), err
}

func (f *fakeExecutor) RunWithStdin(_ context.Context, args []string, input []byte) ([]byte, error) {
	f.lastArgv = args
	f.stdin = input
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out), nil
}

func TestBuiltinStripsStyleAndScript(t *testing.T) {
	c := BuiltinConverter{}
	res, err := c.Convert(context.Background(), `<style>.x{color:red}</style><p>hi</p><script>alert(1)</script>`)
	require.NoError(t, err)
	require.Contains(t, res.PlainText, "hi")
	require.NotContains(t, res.PlainText, "color:red")
	require.NotContains(t, res.PlainText, "alert")
}

func TestBuiltinDecodesEntities(t *testing.T) {
	c := BuiltinConverter{}
	res, err := c.Convert(context.Background(), "a&nbsp;b &amp; c &#39;d&#39;")
	require.NoError(t, err)
	require.Contains(t, res.PlainText, "a b & c 'd'")
}

func TestBuiltinBreaksOnBlockTagsAndBr(t *testing.T) {
	c := BuiltinConverter{}
	res, err := c.Convert(context.Background(), "<p>one</p><p>two<br>three</p>")
	require.NoError(t, err)
	require.Contains(t, res.PlainText, "one\n")
	require.Contains(t, res.PlainText, "two\nthree\n")
}

func TestBuiltinBulletsListItems(t *testing.T) {
	c := BuiltinConverter{}
	res, err := c.Convert(context.Background(), "<ul><li>a</li><li>b</li></ul>")
	require.NoError(t, err)
	require.Contains(t, res.PlainText, "• a")
	require.Contains(t, res.PlainText, "• b")
}

func TestBuiltinSpansTrackStyle(t *testing.T) {
	c := BuiltinConverter{}
	res, err := c.Convert(context.Background(), "<b>bold</b><i>italic</i>")
	require.NoError(t, err)

	var sawBold, sawItalic bool
	for _, s := range res.Spans {
		if s.Text == "bold" && s.Bold {
			sawBold = true
		}
		if s.Text == "italic" && s.Italic {
			sawItalic = true
		}
	}
	require.True(t, sawBold)
	require.True(t, sawItalic)
}

func TestExternalConvertPipesHTMLAndCollapsesBlankLines(t *testing.T) {
	f := &fakeExecutor{out: "a\n\n\n\nb"}
	c := NewExternal(f, []string{"-dump", "-stdin"}, 0)

	res, err := c.Convert(context.Background(), "<p>a</p><p>b</p>")
	require.NoError(t, err)
	require.Equal(t, []byte("<p>a</p><p>b</p>"), f.stdin)
	require.Equal(t, []string{"-dump", "-stdin"}, f.lastArgv)
	require.Equal(t, "a\n\nb", res.PlainText)
}

func TestExternalRewrapsToWidth(t *testing.T) {
	f := &fakeExecutor{out: "one two three four five"}
	c := NewExternal(f, nil, 10)

	res, err := c.Convert(context.Background(), "<p>x</p>")
	require.NoError(t, err)
	for _, line := range splitLines(res.PlainText) {
		require.LessOrEqual(t, len(line), 10)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func TestExternalAvailableWhenProbeSucceeds(t *testing.T) {
	f := &fakeExecutor{probeOK: true}
	c := NewExternal(f, nil, 0)
	require.True(t, c.Available(context.Background()))
}

func TestSelectBuiltin(t *testing.T) {
	c, err := Select(context.Background(), KindBuiltin, nil)
	require.NoError(t, err)
	require.IsType(t, BuiltinConverter{}, c)
}

func TestSelectExternalFailsWhenUnavailable(t *testing.T) {
	f := &fakeExecutor{probeOK: false}
	ext := NewExternal(f, nil, 0)
	_, err := Select(context.Background(), KindExternal, ext)
	require.Error(t, err)
}

func TestSelectAutoFallsBackToBuiltin(t *testing.T) {
	f := &fakeExecutor{probeOK: false}
	ext := NewExternal(f, nil, 0)
	c, err := Select(context.Background(), KindAuto, ext)
	require.NoError(t, err)
	require.IsType(t, BuiltinConverter{}, c)
}

func TestSelectAutoPrefersExternalWhenAvailable(t *testing.T) {
	f := &fakeExecutor{probeOK: true}
	ext := NewExternal(f, nil, 0)
	c, err := Select(context.Background(), KindAuto, ext)
	require.NoError(t, err)
	require.Same(t, ext, c)
}
