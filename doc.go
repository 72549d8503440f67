/* Package main: POSTFIX -- a tiny stack language

POSTFIX is a toy language for studying stack machines: a program is a
parenthesized list of integers, commands, and nested lists, all evaluated
left to right against a single value stack.  There are no variables, no
names, and no loops; the only control flow is exec, which runs a quoted
list, and sel, which picks one of two values.  Yet that is enough to write
conditionals, and (given a step limit) programs that never halt.

A program looks like:

	(postfix 2 sub)

The header "postfix 2" declares that the program takes two integer
arguments; they are pushed in the order given, so running that program with
arguments "7 3" leaves 3 on top of 7, and sub computes 7 - 3 = 4.  Whatever
value is left on top of the stack when the program runs out of instructions
is its result.

Section 1: Values

There are only two kinds of value: 64-bit integers, and sequences.  A
sequence is any parenthesized list inside the program body; when reached, it
is pushed whole, as data, without running any of its contents.  Commands
themselves are never values: they run when reached.

Section 2: Commands

The commands are (v1 is the top of the stack, v2 just below it, and so on):

	add sub mul div rem   pop v1 and v2, push v2 OP v1
	lt gt eq              pop v1 and v2, push 1 if v2 OP v1, else 0
	pop                   discard v1
	swap                  exchange v1 and v2
	sel                   pop v1, v2, v3; push v1 if v3 is 0, else v2
	nget                  pop v1, push a copy of the v1-th value from the top
	exec                  pop the sequence v1, and run its contents next

Any command may fail: by finding too few values, an operand of the wrong
kind, a zero divisor, or an index out of range.  A failure ends the run
with a runtime error naming the command.  Emptying the stack completely is
also an error, since a program must always leave some result; the one
exception is an exec of the last value on the stack, whose contents then
get their chance to refill it.

Section 3: Control flow

Since exec pushes a sequence's contents onto the front of the pending
instructions, sel and exec together make a conditional:

	(postfix 1 1 nget 0 lt (0 swap sub) () sel exec)

computes the absolute value of its argument: it copies the argument, tests
whether it is negative, selects either a negation sequence or an empty one,
and then runs whichever was selected.

Section 4: Running programs

Programs may be run from Go with Run, or from the postfix command: either
interactively, one program at a time, or in batch, one program and its
arguments per line of input.  See main.go for flags.

*/
package main
