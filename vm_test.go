package main

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/gopostfix/internal/logio"
	"github.com/jcorbin/gopostfix/internal/panicerr"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []VMOption
	ops     []func(vm *VM) error
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error
}

// apply lets builder steps be passed around as values, see vm_expects_test.go.
func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

// withProg loads a program, replacing any prior stack and continuation; so
// it should come before any withStack or withCont.
func (vmt vmTestCase) withProg(src string, args ...Int) vmTestCase {
	prog := MustParse(src)
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.load(prog, args)
	}))
	return vmt
}

func (vmt vmTestCase) withStack(values ...Value) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.stack = append(vm.stack, values...)
	}))
	return vmt
}

// withCont queues tokens to run, in the order given, before anything already
// pending.
func (vmt vmTestCase) withCont(tokens ...Token) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.prepend(Sequence(tokens))
	}))
	return vmt
}

func (vmt vmTestCase) withStepLimit(limit uint) vmTestCase {
	vmt.opts = append(vmt.opts, WithStepLimit(limit))
	return vmt
}

func (vmt vmTestCase) do(ops ...func(vm *VM) error) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStack(values ...Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []Value{}
		}
		stack := vm.stack
		if stack == nil {
			stack = []Value{}
		}
		assert.Equal(t, values, stack, "expected stack values")
	})
	return vmt
}

// expectCont checks pending tokens, given in execution order.
func (vmt vmTestCase) expectCont(tokens ...Token) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		cont := make([]Token, 0, len(vm.cont))
		for i := len(vm.cont) - 1; i >= 0; i-- {
			cont = append(cont, vm.cont[i])
		}
		if tokens == nil {
			tokens = []Token{}
		}
		assert.Equal(t, tokens, cont, "expected continuation")
	})
	return vmt
}

func (vmt vmTestCase) expectResult(val Value) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		res, err := vm.result()
		if assert.NoError(t, err, "expected a result") {
			assert.Equal(t, val, res, "expected result value")
		}
	})
	return vmt
}

func (vmt vmTestCase) expectSteps(steps uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, steps, vm.steps, "expected step count")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vmDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	// trace is only shown for failed tests
	var trace []string
	vm := vmt.buildVM(t, func(mess string, args ...interface{}) {
		trace = append(trace, fmt.Sprintf(mess, args...))
	})
	defer func() {
		if t.Failed() {
			for _, line := range trace {
				t.Log(line)
			}
			dumpToTest(t, vm)
		}
	}()

	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

// runVM runs any ops, or else runs the continuation to completion.
func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) error {
	if len(vmt.ops) == 0 {
		return panicerr.Recover("vmTestCase.run", func() error {
			_, err := vm.run(ctx)
			return err
		})
	}

	names := make([]string, len(vmt.ops))
	for i, op := range vmt.ops {
		names[i] = runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
	}
	return panicerr.Recover("vmTestCase.ops", func() error {
		for i, op := range vmt.ops {
			vm.logf(">", "do[%v] %v", i, names[i])
			if err := op(vm); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (vmt vmTestCase) buildVM(t *testing.T, logfn func(mess string, args ...interface{})) *VM {
	const defaultStepLimit = 10000
	return New(
		WithLogf(logfn),
		WithStepLimit(defaultStepLimit),
		VMOptions(vmt.opts...),
	)
}

func dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
}

//// utilities

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func seq(tokens ...Token) Sequence {
	if tokens == nil {
		return Sequence{}
	}
	return Sequence(tokens)
}
