package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// VM runs postfix programs. The machine has two stacks: the value stack,
// holding integers and quoted sequences, and the continuation, holding the
// instructions that have yet to run.
//
// A VM runs one program at a time; independent runs may proceed concurrently
// on separate VMs, since no state is shared between them.
type VM struct {
	logging

	// The value stack is a LIFO of Values; its top is the last element.
	stack []Value

	// The continuation is a LIFO of pending instructions; the next one to run
	// is its last element, so that exec can prepend a sequence by appending
	// it in reverse.
	cont []Token

	steps     uint // instructions run so far
	stepLimit uint // if non-zero, halt after this many steps

	// if non-nil, failed runs are dumped here
	dumpTo io.Writer
}

// load resets the machine to run prog with the given arguments; arguments are
// pushed in order, so the first one ends up deepest.
func (vm *VM) load(prog *Program, args []Int) {
	vm.steps = 0
	vm.stack = vm.stack[:0]
	for _, arg := range args {
		vm.stack = append(vm.stack, arg)
	}
	vm.cont = vm.cont[:0]
	vm.prepend(prog.Body)
}

func (vm *VM) run(ctx context.Context) (Value, error) {
	if vm.logfn != nil {
		defer vm.withLogPrefix("	")()
	}
	for len(vm.cont) > 0 {
		if err := vm.checkHalt(ctx); err != nil {
			vm.logf("#", "halt: %v", err)
			return nil, err
		}
		if err := vm.step(); err != nil {
			vm.logf("#", "fail: %v", err)
			return nil, err
		}
	}
	return vm.result()
}

// checkHalt enforces any host imposed bounds; it is only called between
// steps, so a halted machine may still be dumped intact.
func (vm *VM) checkHalt(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &RuntimeError{Op: "halt", Err: err}
	}
	if limit := vm.stepLimit; limit != 0 && vm.steps >= limit {
		return &RuntimeError{Op: "halt", Err: ErrStepLimit}
	}
	return nil
}

func (vm *VM) step() error {
	i := len(vm.cont) - 1
	tok := vm.cont[i]
	vm.cont = vm.cont[:i]
	vm.steps++
	pending := len(vm.cont)

	if vm.logfn != nil {
		vm.logf(">", "stack %v", formatStack(vm.stack))
		vm.logf(">", "cont  %v", formatCont(vm.cont))
	}

	switch t := tok.(type) {
	case Int:
		vm.logf("push", "%v", t)
		vm.push(t)
	case Sequence:
		vm.logf("push", "%v", t)
		vm.push(t)
	case Command:
		vm.logf("run", "%v", t)
		if err := cmdTable[t](vm); err != nil {
			return err
		}
	default:
		panic(fmt.Sprintf("invalid instruction %T", tok))
	}

	// an exec that queued work may leave the stack empty until that work runs
	if len(vm.stack) == 0 && !(tok == cmdExec && len(vm.cont) > pending) {
		return &RuntimeError{Err: ErrExhausted}
	}
	return nil
}

func (vm *VM) result() (Value, error) {
	i := len(vm.stack) - 1
	if i < 0 {
		return nil, &RuntimeError{Err: ErrExhausted}
	}
	val := vm.stack[i]
	vm.logf("#", "result %v after %v steps", val, vm.steps)
	return val, nil
}

// dumpFailure writes a dump of the halted machine in one write, so that
// dumps from concurrent runs sharing a writer stay whole.
func (vm *VM) dumpFailure(err error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %v\n", err)
	vmDumper{vm: vm, out: &buf, contLimit: 16}.dump()
	if _, werr := vm.dumpTo.Write(buf.Bytes()); werr != nil {
		vm.logf("#", "dump failed: %v", werr)
	}
}

func (vm *VM) push(val Value) {
	vm.stack = append(vm.stack, val)
}

func (vm *VM) popValue() (Value, bool) {
	i := len(vm.stack) - 1
	if i < 0 {
		return nil, false
	}
	val := vm.stack[i]
	vm.stack[i] = nil
	vm.stack = vm.stack[:i]
	return val, true
}

// prepend arranges for seq to run next, in order.
func (vm *VM) prepend(seq Sequence) {
	for i := len(seq) - 1; i >= 0; i-- {
		vm.cont = append(vm.cont, seq[i])
	}
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark += strings.Repeat(" ", n)
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
