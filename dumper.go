package main

import (
	"fmt"
	"io"
	"strings"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	// if non-zero, elide all but this many of the next pending instructions
	contLimit int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  steps: %v\n", dump.vm.steps)
	if lim := dump.vm.stepLimit; lim != 0 {
		fmt.Fprintf(dump.out, "  limit: %v\n", lim)
	}
	dump.dumpStack()
	dump.dumpCont()
}

// dumpStack lists the value stack from the top down, with the 1-based index
// that nget would use to copy up each value.
func (dump vmDumper) dumpStack() {
	stack := dump.vm.stack
	fmt.Fprintf(dump.out, "# Stack depth:%v\n", len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Fprintf(dump.out, "  %v: %v\n", len(stack)-i, stack[i])
	}
}

// dumpCont lists pending instructions in the order that they will run.
func (dump vmDumper) dumpCont() {
	cont := dump.vm.cont
	fmt.Fprintf(dump.out, "# Continuation length:%v\n", len(cont))
	n := 0
	for i := len(cont) - 1; i >= 0; i-- {
		if dump.contLimit != 0 && n >= dump.contLimit {
			fmt.Fprintf(dump.out, "  ... %v more\n", i+1)
			break
		}
		fmt.Fprintf(dump.out, "  %v\n", cont[i])
		n++
	}
}

// formatStack renders the value stack bottom first, as it would be written in
// a program.
func formatStack(stack []Value) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, val := range stack {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(val.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// formatCont renders the continuation in execution order.
func formatCont(cont []Token) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := len(cont) - 1; i >= 0; i-- {
		if i < len(cont)-1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(cont[i].String())
	}
	sb.WriteByte(']')
	return sb.String()
}
