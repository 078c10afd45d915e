// Package wlog implements a minimalistic structured logging library used
// throughout whynot-go.
package wlog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnae/whynot-go/werrors"
)

// Logger writes formatted log lines to an underlying Output.
//
// Logger is stateless and can be copied freely; the underlying Output is
// shared, not copied. Each message is prefixed with the logger's Name.
type Logger struct {
	Out   Output
	Name  string
	Debug bool

	// Fields are merged into every message emitted through this Logger.
	Fields map[string]interface{}
}

// Zap returns a *zap.Logger that forwards records into this Logger, for
// dependencies that want a zap logger directly. No package in this
// repository calls it.
func (l Logger) Zap() *zap.Logger {
	return zap.New(zapCore{l: l})
}

// With returns a copy of l with additional fields merged in.
func (l Logger) With(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.Fields)+len(fields))
	for k, v := range l.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.Fields = merged
	return l
}

// Named returns a copy of l whose Name is suffixed with "/"+name.
func (l Logger) Named(name string) Logger {
	if l.Name != "" {
		l.Name = l.Name + "/" + name
	} else {
		l.Name = name
	}
	return l
}

func (l Logger) Debugf(format string, val ...interface{}) {
	if !l.Debug {
		return
	}
	l.log(true, l.formatMsg(fmt.Sprintf(format, val...), nil))
}

func (l Logger) Printf(format string, val ...interface{}) {
	l.log(false, l.formatMsg(fmt.Sprintf(format, val...), nil))
}

func (l Logger) Println(val ...interface{}) {
	l.log(false, l.formatMsg(strings.TrimRight(fmt.Sprintln(val...), "\n"), nil))
}

// Msg writes a structured event log line:
//
//	name: msg\t{"key":"value","key2":"value2"}
func (l Logger) Msg(msg string, fields ...interface{}) {
	m := make(map[string]interface{}, len(fields)/2)
	fieldsToMap(fields, m)
	l.log(false, l.formatMsg(msg, m))
}

// Error logs msg together with structured fields extracted from err via
// werrors.Fields (walking any wrapped errors), plus the err text itself
// under "reason" unless a field already supplies one.
func (l Logger) Error(msg string, err error, fields ...interface{}) {
	if err == nil {
		return
	}

	errFields := werrors.Fields(err)
	all := make(map[string]interface{}, len(fields)+len(errFields)+1)
	for k, v := range errFields {
		all[k] = v
	}
	if all["reason"] == nil {
		all["reason"] = err.Error()
	}
	fieldsToMap(fields, all)

	l.log(false, l.formatMsg(msg, all))
}

func fieldsToMap(fields []interface{}, out map[string]interface{}) {
	var lastKey string
	for i, val := range fields {
		if i%2 == 0 {
			key, ok := val.(string)
			if !ok {
				out[fmt.Sprint("field", i)] = val
				continue
			}
			lastKey = key
		} else {
			out[lastKey] = val
		}
	}
}

func (l Logger) formatMsg(msg string, fields map[string]interface{}) string {
	b := strings.Builder{}
	b.WriteString(msg)
	b.WriteRune('\t')

	if len(l.Fields)+len(fields) != 0 {
		if fields == nil {
			fields = make(map[string]interface{})
		}
		for k, v := range l.Fields {
			fields[k] = v
		}
		if err := marshalOrderedJSON(&b, fields); err != nil {
			return fmt.Sprintf("[BROKEN FORMATTING: %v] %v %+v", err, msg, fields)
		}
	}

	return b.String()
}

// Write implements io.Writer: every write becomes one log message.
func (l Logger) Write(p []byte) (int, error) {
	l.log(false, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (l Logger) log(debug bool, s string) {
	if l.Name != "" {
		s = l.Name + ": " + s
	}
	if l.Out != nil {
		l.Out.Write(time.Now(), debug, s)
		return
	}
	if DefaultLogger.Out != nil {
		DefaultLogger.Out.Write(time.Now(), debug, s)
	}
}

// DefaultLogger is used by the package-level logging functions.
var DefaultLogger = Logger{Out: WriterOutput(os.Stderr)}

func Debugf(format string, val ...interface{}) { DefaultLogger.Debugf(format, val...) }
func Printf(format string, val ...interface{}) { DefaultLogger.Printf(format, val...) }
func Println(val ...interface{})               { DefaultLogger.Println(val...) }
