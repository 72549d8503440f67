package main

import "io"

// VMOption configures a VM, see New.
type VMOption interface{ apply(vm *VM) }

// VMOptions combines any number of options into one; nil options are ignored.
func VMOptions(opts ...VMOption) VMOption {
	var res vmOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case vmOptions:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type vmOptions []VMOption

func (opts vmOptions) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

var defaultOptions = VMOptions(
	withLogfn(nil),
	stepLimitOption(0),
	dumpOption{},
)

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
	vm.markWidth = 0
}

type stepLimitOption uint

func (lim stepLimitOption) apply(vm *VM) {
	vm.stepLimit = uint(lim)
}

type dumpOption struct{ io.Writer }

func (opt dumpOption) apply(vm *VM) {
	vm.dumpTo = opt.Writer
}
