package wlog

import (
	"fmt"
	"io"
	"time"
)

// Output is the sink a Logger writes formatted lines to.
type Output interface {
	Write(stamp time.Time, debug bool, msg string)
}

type writerOutput struct {
	w io.Writer
}

// WriterOutput wraps an io.Writer (typically os.Stderr, or a file) as an
// Output, prefixing each line with an RFC3339 timestamp and a debug marker.
func WriterOutput(w io.Writer) Output {
	return writerOutput{w: w}
}

func (o writerOutput) Write(stamp time.Time, debug bool, msg string) {
	marker := "I"
	if debug {
		marker = "D"
	}
	fmt.Fprintf(o.w, "%s [%s] %s\n", stamp.Format(time.RFC3339), marker, msg)
}

type multiOutput struct {
	outs []Output
}

// MultiOutput fans a single log line out to multiple sinks.
func MultiOutput(outs ...Output) Output {
	return multiOutput{outs: outs}
}

func (m multiOutput) Write(stamp time.Time, debug bool, msg string) {
	for _, o := range m.outs {
		o.Write(stamp, debug, msg)
	}
}

// NopOutput discards everything written to it.
type NopOutput struct{}

func (NopOutput) Write(time.Time, bool, string) {}
