// Package srcinput reads lines of source text through a queue of one or more
// input streams, tracking where each line came from.
package srcinput

import (
	"bufio"
	"fmt"
	"io"
)

// Location names a line in an input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Line is one line of input text, without its line terminator.
type Line struct {
	Location
	Text string
}

func (il Line) String() string { return fmt.Sprintf("%v %q", il.Location, il.Text) }

// Input scans lines sequentially from each stream in Queue; streams that
// implement io.Closer are closed once exhausted.
type Input struct {
	Queue []io.Reader

	cur  io.Reader
	sc   *bufio.Scanner
	line Line
	err  error
}

// Scan advances to the next line, moving on through the queue as streams are
// exhausted. Returns false when all input is consumed, or after any read error.
func (in *Input) Scan() bool {
	for in.err == nil {
		if in.sc == nil && !in.nextIn() {
			return false
		}
		if in.sc.Scan() {
			in.line.Line++
			in.line.Text = in.sc.Text()
			return true
		}
		in.err = in.sc.Err()
		in.closeIn()
	}
	return false
}

// Line returns the line most recently scanned.
func (in *Input) Line() Line { return in.line }

// Err returns the first read error encountered, if any.
func (in *Input) Err() error { return in.err }

// Close closes the current stream and any still queued.
func (in *Input) Close() error {
	in.closeIn()
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			cl.Close()
		}
	}
	in.Queue = nil
	return in.err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.cur = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.sc = bufio.NewScanner(in.cur)
	in.line = Line{Location: Location{Name: nameOf(in.cur)}}
	return true
}

func (in *Input) closeIn() {
	if cl, ok := in.cur.(io.Closer); ok {
		if err := cl.Close(); in.err == nil {
			in.err = err
		}
	}
	in.cur, in.sc = nil, nil
}

// Named attaches a name to r, used in the Location of lines read from it.
func Named(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
