package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVMDumper(t *testing.T) {
	vm := New(WithStepLimit(50))
	vm.load(MustParse("(postfix 2 (1 2) 3 4 5 6 add)"), []Int{7, 8})

	var out strings.Builder
	vmDumper{vm: vm, out: &out, contLimit: 3}.dump()
	assert.Equal(t, lines(
		"# VM Dump",
		"  steps: 0",
		"  limit: 50",
		"# Stack depth:2",
		"  1: 8",
		"  2: 7",
		"# Continuation length:6",
		"  (1 2)",
		"  3",
		"  4",
		"  ... 3 more",
	), out.String())
}

func TestFormatStacks(t *testing.T) {
	assert.Equal(t, "[]", formatStack(nil))
	assert.Equal(t, "[1 (2 add) 3]", formatStack([]Value{Int(1), seq(Int(2), cmdAdd), Int(3)}))

	assert.Equal(t, "[]", formatCont(nil))
	// stored with the next instruction last
	assert.Equal(t, "[add 2 1]", formatCont([]Token{Int(1), Int(2), cmdAdd}))
}
