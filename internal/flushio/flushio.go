// Package flushio provides buffered output streams that are flushed at well
// defined points, such as after each batch result or REPL response.
package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher returns w if it is already a WriteFlusher, w with a no-op
// Flush if it is an in-memory buffer or io.Discard, otherwise a bufio.Writer
// around w.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if w == io.Discard {
		return nopFlusher{w}
	}
	if wf, is := w.(WriteFlusher); is {
		return wf
	}

	// as implemented by bytes.Buffer and strings.Builder
	type buffer interface {
		io.Writer
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// Printer writes lines to a WriteFlusher, retaining the first write error so
// that callers may check it once at the end.
type Printer struct {
	WriteFlusher
	Err error
}

// Println writes s and a newline.
func (p *Printer) Println(s string) {
	if p.Err == nil {
		_, p.Err = io.WriteString(p.WriteFlusher, s+"\n")
	}
}

// Flush flushes the underlying stream, returning any retained error.
func (p *Printer) Flush() error {
	if ferr := p.WriteFlusher.Flush(); p.Err == nil {
		p.Err = ferr
	}
	return p.Err
}
