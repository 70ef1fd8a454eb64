package ingestors

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineResult struct {
	text    string
	tooLong bool
}

func readAll(t *testing.T, input string, limit int) []lineResult {
	t.Helper()

	reader := newLineReader(strings.NewReader(input), limit)
	var lines []lineResult
	for {
		text, tooLong, err := reader.next()
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, lineResult{text: text, tooLong: tooLong})
	}
}

func TestLineReader_Next(t *testing.T) {
	t.Parallel()

	const limit = 8

	tests := []struct {
		name  string
		input string
		want  []lineResult
	}{
		{name: "empty", input: "", want: nil},
		{name: "lf and crlf", input: "a\r\nb\n\nc", want: []lineResult{{text: "a"}, {text: "b"}, {text: ""}, {text: "c"}}},
		{name: "exactly the limit", input: "12345678\r\nx\n", want: []lineResult{{text: "12345678"}, {text: "x"}}},
		{name: "one byte over", input: "123456789\nx\n", want: []lineResult{{tooLong: true}, {text: "x"}}},
		{name: "overlong without newline", input: "x\n" + strings.Repeat("y", 20), want: []lineResult{{text: "x"}, {tooLong: true}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, readAll(t, tt.input, limit))
		})
	}
}

func TestLineReader_Next_LongerThanBuffer(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("z", 3*readBufferBytes)
	input := long + "\n" + strings.Repeat("w", 5*readBufferBytes) + "\nend\n"

	lines := readAll(t, input, 4*readBufferBytes)
	require.Len(t, lines, 3)
	assert.Equal(t, long, lines[0].text)
	assert.True(t, lines[1].tooLong)
	assert.Equal(t, "end", lines[2].text)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestLineReader_Next_ReadError(t *testing.T) {
	t.Parallel()

	_, _, err := newLineReader(brokenReader{}, 8).next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
