package render

// Writer accumulates rendered output and provides helpers for emitting
// canonical line spacing.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with capacity for roughly the input size.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint+256)}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteLine emits text followed by a newline. Multi-segment text (joined
// continuations) already carries its internal newlines.
func (w *Writer) WriteLine(text string) {
	w.buf = append(w.buf, text...)
	w.buf = append(w.buf, '\n')
}

// BlankSeparator emits a blank line unless the output already ends with
// one, so separators never stack.
func (w *Writer) BlankSeparator() {
	if len(w.buf) == 0 {
		return
	}
	if len(w.buf) >= 2 && w.buf[len(w.buf)-1] == '\n' && w.buf[len(w.buf)-2] == '\n' {
		return
	}
	w.buf = append(w.buf, '\n')
}

// TrimTrailingBlank reduces any run of trailing newlines to a single one.
func (w *Writer) TrimTrailingBlank() {
	for len(w.buf) >= 2 && w.buf[len(w.buf)-1] == '\n' && w.buf[len(w.buf)-2] == '\n' {
		w.buf = w.buf[:len(w.buf)-1]
	}
}
