package respcodec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserReadCommand(t *testing.T) {
	raw := "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"
	p := NewParser(strings.NewReader(raw))

	args, err := p.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"SET", "foo", "bar"}, args)
}

func TestParserReadCommandEmptyArray(t *testing.T) {
	p := NewParser(strings.NewReader("*0\r\n"))
	args, err := p.ReadCommand()
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestParserPreservesEmbeddedCRLF(t *testing.T) {
	payload := "line1\r\nline2"
	raw := "*1\r\n$" + "12\r\n" + payload + "\r\n"
	p := NewParser(strings.NewReader(raw))

	args, err := p.ReadCommand()
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, payload, args[0])
}

func TestParserRejectsMissingArrayPrefix(t *testing.T) {
	p := NewParser(strings.NewReader("not-resp\r\n"))
	_, err := p.ReadCommand()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestParserRejectsBadBulkTerminator(t *testing.T) {
	p := NewParser(strings.NewReader("*1\r\n$3\r\nfooXX"))
	_, err := p.ReadCommand()
	require.Error(t, err)
}

func TestParserNilBulkString(t *testing.T) {
	p := NewParser(strings.NewReader("*1\r\n$-1\r\n"))
	args, err := p.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{""}, args)
}
