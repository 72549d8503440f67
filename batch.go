package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/gopostfix/internal/flushio"
	"github.com/jcorbin/gopostfix/internal/srcinput"
)

// batchJob is one line of batch input: a program followed by its arguments.
type batchJob struct {
	srcinput.Location
	program   string
	arguments string

	val Value
	err error
}

func (job batchJob) String() string {
	return fmt.Sprintf("%v: %v", job.Location, FormatResult(job.val, job.err))
}

// splitProgramLine splits a batch line after the paren that closes its first
// open paren; anything after that is argument text. A line that never closes
// is all program, and will fail to parse.
func splitProgramLine(line string) (program, arguments string) {
	depth := 0
	for i, r := range line {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return line[:i+1], strings.TrimSpace(line[i+1:])
			}
		}
	}
	return line, ""
}

// isBatchComment reports whether a batch line should be skipped.
func isBatchComment(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}

// batch runs every program read from its input, each on its own VM, up to jobs
// at a time. Results are printed in input order.
type batch struct {
	in      *srcinput.Input
	out     *flushio.Printer
	jobs    int
	timeout time.Duration // per program, if positive
	opts    []VMOption
}

func (b batch) read() ([]batchJob, error) {
	var jobs []batchJob
	for b.in.Scan() {
		line := b.in.Line()
		if isBatchComment(line.Text) {
			continue
		}
		var job batchJob
		job.Location = line.Location
		job.program, job.arguments = splitProgramLine(line.Text)
		jobs = append(jobs, job)
	}
	return jobs, b.in.Err()
}

// run returns how many jobs failed, along with any error that prevented
// reading input or writing results.
func (b batch) run(ctx context.Context) (failed int, err error) {
	jobs, err := b.read()
	if err != nil {
		return 0, err
	}

	limit := b.jobs
	if limit < 1 {
		limit = 1
	}

	eg, jobCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i := range jobs {
		if jobCtx.Err() != nil {
			break
		}
		job := &jobs[i]
		eg.Go(func() error {
			ctx, cancel := withTimeout(jobCtx, b.timeout)
			defer cancel()
			job.val, job.err = Run(ctx, job.program, job.arguments, b.opts...)
			// a timed out job is only a failed result; a canceled batch is not
			return jobCtx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	for _, job := range jobs {
		if job.err != nil {
			failed++
		}
		b.out.Println(job.String())
	}
	return failed, b.out.Flush()
}

// isSyntaxError reports whether a run failed before starting.
func isSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
