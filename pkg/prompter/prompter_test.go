package prompter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptString(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  hello world \n"), &out)

	got, err := p.PromptString("Say: ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Say: ", out.String())
}

func TestPromptStringWithoutTrailingNewline(t *testing.T) {
	p := New(strings.NewReader("last"), io.Discard)

	got, err := p.PromptString("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.PromptString("> ")
	assert.Equal(t, io.EOF, err)
}

func TestPromptSecretFallsBackOffTerminal(t *testing.T) {
	p := New(strings.NewReader("s3cret\n"), io.Discard)

	got, err := p.PromptSecret("Token: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestPromptConfirm(t *testing.T) {
	for input, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		p := New(strings.NewReader(input), io.Discard)
		got, err := p.PromptConfirm("Delete?")
		require.NoError(t, err, "%q", input)
		assert.Equal(t, want, got, "%q", input)
	}
}

func TestReadLineSequence(t *testing.T) {
	p := New(strings.NewReader("one\ntwo\n"), io.Discard)

	first, err := p.ReadLine()
	require.NoError(t, err)
	second, err := p.ReadLine()
	require.NoError(t, err)
	_, err = p.ReadLine()

	assert.Equal(t, []string{"one", "two"}, []string{first, second})
	assert.Equal(t, io.EOF, err)
}
