package main

//// Built-in Operations

// Every operation pops its operands off the value stack, and either pushes its
// result or fails the run. Operands are named in pop order: v1 is the top of
// the stack, v2 just below it, and so on.

// pop2 pops v1 then v2.
func (vm *VM) pop2(cmd Command) (v1, v2 Value, err error) {
	var ok bool
	if v1, ok = vm.popValue(); !ok {
		return nil, nil, opError(cmd, ErrArgs)
	}
	if v2, ok = vm.popValue(); !ok {
		return nil, nil, opError(cmd, ErrArgs)
	}
	return v1, v2, nil
}

// popInts pops v1 then v2, requiring both to be integers.
func (vm *VM) popInts(cmd Command) (v1, v2 Int, err error) {
	a, b, err := vm.pop2(cmd)
	if err != nil {
		return 0, 0, err
	}
	v1, ok1 := a.(Int)
	v2, ok2 := b.(Int)
	if !ok1 || !ok2 {
		return 0, 0, opError(cmd, ErrNotInt)
	}
	return v1, v2, nil
}

func (vm *VM) binop(cmd Command, op func(v2, v1 Int) Int) error {
	v1, v2, err := vm.popInts(cmd)
	if err == nil {
		vm.push(op(v2, v1))
	}
	return err
}

// divop is a binop that refuses a zero divisor.
func (vm *VM) divop(cmd Command, op func(v2, v1 Int) Int) error {
	v1, v2, err := vm.popInts(cmd)
	if err == nil && v1 == 0 {
		err = opError(cmd, ErrZero)
	}
	if err == nil {
		vm.push(op(v2, v1))
	}
	return err
}

func (vm *VM) compare(cmd Command, op func(v2, v1 Int) bool) error {
	return vm.binop(cmd, func(v2, v1 Int) Int { return boolInt(op(v2, v1)) })
}

//// Integer Operations

// Name   Function
// add    pop v1, v2; push v2 + v1
func (vm *VM) add() error { return vm.binop(cmdAdd, func(v2, v1 Int) Int { return v2 + v1 }) }

// Name   Function
// sub    pop v1, v2; push v2 - v1
func (vm *VM) sub() error { return vm.binop(cmdSub, func(v2, v1 Int) Int { return v2 - v1 }) }

// Name   Function
// mul    pop v1, v2; push v2 * v1
func (vm *VM) mul() error { return vm.binop(cmdMul, func(v2, v1 Int) Int { return v2 * v1 }) }

// Name   Function
// div    pop v1, v2; push v2 / v1
//
// Division truncates toward zero, as Go does; the one overflowing case,
// MinInt64 / -1, wraps around to MinInt64.
func (vm *VM) div() error { return vm.divop(cmdDiv, func(v2, v1 Int) Int { return v2 / v1 }) }

// Name   Function
// rem    pop v1, v2; push the remainder of v2 / v1
//
// The remainder agrees with div: its sign follows v2.
func (vm *VM) rem() error { return vm.divop(cmdRem, func(v2, v1 Int) Int { return v2 % v1 }) }

//// Comparison Operations

// There is no boolean type: comparisons push 1 for true and 0 for false, so
// that their results may be used as arithmetic operands.

// Name   Function
// lt     pop v1, v2; push 1 if v2 < v1 else 0
func (vm *VM) lt() error { return vm.compare(cmdLt, func(v2, v1 Int) bool { return v2 < v1 }) }

// Name   Function
// gt     pop v1, v2; push 1 if v2 > v1 else 0
func (vm *VM) gt() error { return vm.compare(cmdGt, func(v2, v1 Int) bool { return v2 > v1 }) }

// Name   Function
// eq     pop v1, v2; push 1 if v2 == v1 else 0
func (vm *VM) eq() error { return vm.compare(cmdEq, func(v2, v1 Int) bool { return v2 == v1 }) }

//// Stack Operations

// Name   Function
// pop    discard v1
func (vm *VM) pop() error {
	if _, ok := vm.popValue(); !ok {
		return opError(cmdPop, ErrArgs)
	}
	return nil
}

// Name   Function
// swap   pop v1, v2; push v1 then v2
func (vm *VM) swap() error {
	v1, v2, err := vm.pop2(cmdSwap)
	if err == nil {
		vm.push(v1)
		vm.push(v2)
	}
	return err
}

// Name   Function
// sel    pop v1, v2, v3; push v1 if v3 is 0, otherwise push v2
func (vm *VM) sel() error {
	v1, v2, err := vm.pop2(cmdSel)
	if err != nil {
		return err
	}
	v3, ok := vm.popValue()
	if !ok {
		return opError(cmdSel, ErrArgs)
	}
	test, ok := v3.(Int)
	if !ok {
		return opError(cmdSel, ErrNotInt)
	}
	if test == 0 {
		vm.push(v1)
	} else {
		vm.push(v2)
	}
	return nil
}

// Name   Function
// nget   pop v1, use it as a 1-based index down from the top of the remaining
//        stack, and copy up that value
func (vm *VM) nget() error {
	v1, ok := vm.popValue()
	if !ok {
		return opError(cmdNget, ErrArgs)
	}
	n, ok := v1.(Int)
	if !ok {
		return opError(cmdNget, ErrNotInt)
	}
	depth := int64(len(vm.stack))
	if n < 1 || int64(n) > depth {
		return opError(cmdNget, ErrIndex)
	}
	vm.push(vm.stack[depth-int64(n)])
	return nil
}

//// Execution Operations

// Name   Function
// exec   pop v1, which must be a sequence, and run its contents next
//
// This is the only operation that touches the continuation: quoted sequences
// are inert data until exec unpacks them.
func (vm *VM) exec() error {
	v1, ok := vm.popValue()
	if !ok {
		return opError(cmdExec, ErrArgs)
	}
	seq, ok := v1.(Sequence)
	if !ok {
		return opError(cmdExec, ErrNotSequence)
	}
	vm.logf("exec", "%v", seq)
	vm.prepend(seq)
	return nil
}

func boolInt(b bool) Int {
	if b {
		return 1
	}
	return 0
}
