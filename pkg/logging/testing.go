package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON log output at every level.
type TestLogger struct {
	Logger *zerolog.Logger
	buf    *bytes.Buffer
}

// NewTestLogger creates a TestLogger. The global level is lowered to trace
// for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()
	old := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(old) })

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.TraceLevel)
	return &TestLogger{Logger: &logger, buf: buf}
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.buf.String()
}

// Lines returns the captured log lines.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Contains reports whether any log line contains substr.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.buf.String(), substr)
}
