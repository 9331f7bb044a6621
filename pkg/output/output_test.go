package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatTable, ParseFormat("table"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"text", true},
		{"table", true},
		{"invalid", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.isValid, ValidateOutputFormat(tt.format), tt.format)
	}
}

func TestBufferIsNotTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestRecordText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	require.NoError(t, p.Record("report/r1", map[string]interface{}{"saved": true, "pending": false}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "report/r1:\n"))
	assert.Less(t, strings.Index(out, "pending"), strings.Index(out, "saved"))
	assert.NotContains(t, out, "\x1b[")
}

func TestRecordJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	require.NoError(t, p.Record("ignored", map[string]interface{}{"saved": true}))
	p.Success("not shown")

	assert.JSONEq(t, `{"saved": true}`, buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	require.NoError(t, p.Table("Inbox", []string{"ID", "UNREAD"}, [][]string{{"A", "2"}, {"B", "0"}}, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Inbox", lines[0])
	assert.Contains(t, lines[2], "A")

	buf.Reset()
	require.NoError(t, p.Table("", []string{"ID"}, nil, nil))
	assert.Equal(t, "(none)\n", buf.String())
}

func TestNotices(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	p.Error("could not %s", "save")
	p.Warning("slow")
	assert.Equal(t, "Error: could not save\nWarning: slow\n", buf.String())
}
