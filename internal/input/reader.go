package input

import (
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
)

// Reader decodes keys from a terminal on a background goroutine.
type Reader struct {
	cr     cancelreader.CancelReader
	keys   chan tea.KeyMsg
	done   chan struct{}
	exited chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// NewReader starts reading keys from r.
func NewReader(r io.Reader) (*Reader, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("input: create reader: %w", err)
	}

	kr := &Reader{
		cr:     cr,
		keys:   make(chan tea.KeyMsg),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go kr.loop()
	return kr, nil
}

// Keys returns the channel of decoded keys. It is closed when the input
// ends, fails, or the Reader is closed; Err then reports why.
func (r *Reader) Keys() <-chan tea.KeyMsg {
	return r.keys
}

// Err returns the read error that ended the key stream, io.EOF when the
// input ended, or nil when the Reader was closed.
func (r *Reader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close stops the background goroutine. It is safe to call more than once.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		if r.cr.Cancel() {
			<-r.exited
		}
		err = r.cr.Close()
	})
	return err
}

func (r *Reader) loop() {
	defer close(r.exited)
	defer close(r.keys)

	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := r.cr.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			var ok bool
			if pending, ok = r.emit(pending); !ok {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				r.setErr(err)
			}
			return
		}
	}
}

// emit sends every complete key in pending and returns what is left.
// ok is false once the Reader has been closed.
func (r *Reader) emit(pending []byte) (rest []byte, ok bool) {
	for len(pending) > 0 {
		key, n, decoded := Decode(pending)
		if n == 0 {
			break
		}
		pending = pending[n:]
		if !decoded {
			continue
		}
		select {
		case r.keys <- key:
		case <-r.done:
			return nil, false
		}
	}
	return append([]byte(nil), pending...), true
}

func (r *Reader) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}
