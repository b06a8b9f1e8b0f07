package dropdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/muesli/cancelreader"
)

var (
	// ErrCursorTimeout is returned when the terminal does not answer a
	// cursor position query in time.
	ErrCursorTimeout = errors.New("dropdown: timed out waiting for cursor position")

	// ErrMalformedReport is returned when the answer to a cursor position
	// query cannot be parsed.
	ErrMalformedReport = errors.New("dropdown: malformed cursor position report")
)

// DefaultCursorTimeout bounds the wait for a cursor position report.
const DefaultCursorTimeout = time.Second

const queryCursorSeq = "\x1b[6n"

// queryCursor asks the terminal for the cursor position and returns the
// 1-based row and column from its report.
func queryCursor(in io.Reader, out io.Writer, timeout time.Duration) (row, col int, err error) {
	if _, err := io.WriteString(out, queryCursorSeq); err != nil {
		return 0, 0, fmt.Errorf("dropdown: query cursor: %w", err)
	}

	cr, err := cancelreader.NewReader(in)
	if err != nil {
		return 0, 0, fmt.Errorf("dropdown: query cursor: %w", err)
	}
	defer cr.Close()

	type result struct {
		report []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := readReport(cr)
		done <- result{report, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return 0, 0, fmt.Errorf("dropdown: read cursor report: %w", res.err)
		}
		return parseCursorReport(res.report)
	case <-time.After(timeout):
		if cr.Cancel() {
			<-done
		}
		return 0, 0, ErrCursorTimeout
	}
}

// readReport reads up to and including the terminating 'R'.
func readReport(r io.Reader) ([]byte, error) {
	var report []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			report = append(report, buf[0])
			if buf[0] == 'R' {
				return report, nil
			}
		}
		if err != nil {
			return report, err
		}
	}
}

// parseCursorReport parses "ESC [ row ; col R". Bytes typed ahead of the
// report are ignored.
func parseCursorReport(report []byte) (row, col int, err error) {
	malformed := fmt.Errorf("%w: %q", ErrMalformedReport, report)

	if !bytes.HasSuffix(report, []byte("R")) {
		return 0, 0, malformed
	}
	start := bytes.LastIndex(report, []byte("\x1b["))
	if start < 0 {
		return 0, 0, malformed
	}
	fields := bytes.Split(report[start+2:len(report)-1], []byte(";"))
	if len(fields) != 2 {
		return 0, 0, malformed
	}

	row, err = strconv.Atoi(string(fields[0]))
	if err != nil || row < 1 {
		return 0, 0, malformed
	}
	col, err = strconv.Atoi(string(fields[1]))
	if err != nil || col < 1 {
		return 0, 0, malformed
	}
	return row, col, nil
}
