package capture

import (
	"bytes"
	"sync"
)

// Writer adapts a Handle to io.Writer so external sinks that
// expect a stream (e.g. a component writing progress text) can
// feed the capture scope. Input is split on newlines; a
// trailing partial line is buffered until the next write or
// Flush.
type Writer struct {
	mu     sync.Mutex
	handle *Handle
	buf    bytes.Buffer
}

// NewWriter creates a Writer appending to the given handle.
func NewWriter(h *Handle) *Writer {
	return &Writer{handle: h}
}

// Write implements io.Writer. It never fails; the capture
// buffer is in memory.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line, keep it buffered.
			w.buf.WriteString(line)
			break
		}
		w.handle.Append(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush appends any buffered partial line as a final line.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.handle.Append(w.buf.String())
		w.buf.Reset()
	}
}
