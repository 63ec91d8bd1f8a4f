package protocol

import (
	"bufio"
	"errors"
	"io"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
)

// Reader reads protocol lines, rejecting lines longer than
// common.MaxLineSize.
type Reader struct {
	sc *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), common.MaxLineSize)
	return &Reader{sc: sc}
}

// ReadLine returns the next line without its terminator. It returns io.EOF
// when the stream ends before a line starts.
func (r *Reader) ReadLine() ([]byte, error) {
	if r.sc.Scan() {
		return r.sc.Bytes(), nil
	}
	if err := r.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, common.ErrLineTooLong
		}
		return nil, err
	}
	return nil, io.EOF
}

// Drain discards input until the stream ends. Returns nil on a clean EOF.
func (r *Reader) Drain() error {
	for r.sc.Scan() {
	}
	return r.sc.Err()
}

// WriteLine writes data followed by '\n' in a single Write call.
func WriteLine(w io.Writer, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, data...)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}
