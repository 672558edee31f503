// Package sink delivers finished status lines to the display.
// Delivery is best-effort: callers log failures and move on, since the
// next render replaces the line anyway.
package sink

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrSealed is returned by a Serial sink after its final line was written.
var ErrSealed = errors.New("sink sealed")

// Sink displays a status line.
type Sink interface {
	Display(text string) error
}

// Func adapts an ordinary function to the Sink interface.
type Func func(text string) error

// Display calls f(text).
func (f Func) Display(text string) error {
	return f(text)
}

// Writer prints each line to an io.Writer, for bars that read stdin.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Display writes text followed by a newline.
func (w *Writer) Display(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.w, text)
	return err
}

// Serial serializes access to an underlying sink and supports a final,
// sealing write. Once sealed, every Display returns ErrSealed without
// reaching the underlying sink.
type Serial struct {
	mu     sync.Mutex
	sink   Sink
	sealed bool
}

// NewSerial wraps s.
func NewSerial(s Sink) *Serial {
	return &Serial{sink: s}
}

// Display forwards text unless the sink is sealed.
func (s *Serial) Display(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	return s.sink.Display(text)
}

// Seal writes the final line and rejects all later writes.
// Only the first call writes; later calls return ErrSealed.
func (s *Serial) Seal(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	s.sealed = true
	return s.sink.Display(text)
}

// Sealed reports whether Seal has been called.
func (s *Serial) Sealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sealed
}
