package main

import (
	"context"
	"io"

	"github.com/jcorbin/gopostfix/internal/panicerr"
)

// New creates a VM, ready to Run programs.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	return &vm
}

// Run runs prog to completion, returning the value left on top of the stack,
// or the first error encountered. The arguments are pushed in order before
// the program starts; their count must match prog.Argc.
//
// Cancelling ctx aborts the run between steps.
func (vm *VM) Run(ctx context.Context, prog *Program, args []Int) (Value, error) {
	if len(args) != prog.Argc {
		return nil, &SyntaxError{Err: ErrArgCount, Pos: -1, End: -1}
	}
	var val Value
	err := panicerr.Recover("postfix", func() (err error) {
		vm.load(prog, args)
		val, err = vm.run(ctx)
		return err
	})
	if err != nil {
		if vm.dumpTo != nil {
			vm.dumpFailure(err)
		}
		return nil, err
	}
	return val, nil
}

// Run parses program and argument text, then runs the program on a new VM.
func Run(ctx context.Context, program, arguments string, opts ...VMOption) (Value, error) {
	prog, err := Parse(program)
	if err != nil {
		return nil, err
	}
	args, err := ParseArgs(arguments, prog.Argc)
	if err != nil {
		return nil, err
	}
	return New(opts...).Run(ctx, prog, args)
}

// Result is like Run, but renders its outcome as text: either the final
// value, or the error message; use Run to tell the two apart.
func Result(ctx context.Context, program, arguments string, opts ...VMOption) string {
	return FormatResult(Run(ctx, program, arguments, opts...))
}

// FormatResult renders the outcome of a run.
func FormatResult(val Value, err error) string {
	if err != nil {
		return err.Error()
	}
	return val.String()
}

// WithLogf enables trace logging of every step through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

// WithStepLimit bounds how many instructions a run may take; 0 means no limit.
func WithStepLimit(limit uint) VMOption { return stepLimitOption(limit) }

// WithDump arranges for the machine state to be written to w whenever a run
// fails, showing the stack and continuation as they were when it stopped.
func WithDump(w io.Writer) VMOption { return dumpOption{w} }
