package ingestors

import (
	"bufio"
	"errors"
	"io"
)

const readBufferBytes = 64 * 1024

// lineReader yields newline-terminated lines. A line longer than limit bytes is consumed
// and dropped so reading can carry on with the next one.
type lineReader struct {
	reader *bufio.Reader
	limit  int
	buf    []byte
}

func newLineReader(r io.Reader, limit int) *lineReader {
	return &lineReader{
		reader: bufio.NewReaderSize(r, readBufferBytes),
		limit:  limit,
	}
}

// next returns the line without its "\n" or "\r\n" terminator. tooLong reports a dropped
// line, in which case text is empty. io.EOF is returned only when nothing is left.
func (lr *lineReader) next() (text string, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	read := 0
	for {
		slice, readErr := lr.reader.ReadSlice('\n')
		read += len(slice)
		if !tooLong {
			// 2 bytes of slack for the terminator.
			if len(lr.buf)+len(slice) > lr.limit+2 {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, slice...)
			}
		}

		if errors.Is(readErr, bufio.ErrBufferFull) {
			continue
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", false, readErr
		}
		if errors.Is(readErr, io.EOF) && read == 0 {
			return "", false, io.EOF
		}
		break
	}

	if tooLong {
		return "", true, nil
	}
	line := lr.buf
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if len(line) > lr.limit {
		return "", true, nil
	}
	return string(line), false, nil
}
