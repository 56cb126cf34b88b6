package diag

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Warn("bad operand %d", 42)
	assert.Contains(t, buf.String(), "bad operand 42")
}

func TestSuppressedCategoryIsSilent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Suppress(CategoryDefaultedArg)
	l.WarnCategory(CategoryDefaultedArg, "argument defaulted")
	assert.Empty(t, buf.String())
}

func TestUnsuppressedCategoryStillLogs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Suppress(CategoryDefaultedArg)
	l.WarnCategory(CategoryClamping, "index clamped")
	assert.NotEmpty(t, buf.String())
}

func TestDieReturnsFatalError(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	err := l.Die(7, "bus loop detected")
	require.Error(t, err)
	assert.Equal(t, 7, err.Code)
	assert.True(t, strings.Contains(err.Error(), "bus loop"))
}

func TestDailyLogPathIsDateShaped(t *testing.T) {
	l := New(&bytes.Buffer{})
	ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	path := l.DailyLogPath("/tmp/logs", ts)
	assert.Equal(t, "/tmp/logs/2026-07-31.log", path)
}
