package main

import "fmt"

// Command names one of the built-in operations; the set is closed, so any
// Command that the parser produces has a handler in cmdTable.
type Command uint8

const (
	// Here's a handy summary of all the postfix commands:
	cmdAdd  Command = iota // add    v2 + v1
	cmdSub                 // sub    v2 - v1
	cmdMul                 // mul    v2 * v1
	cmdDiv                 // div    v2 / v1, truncated toward zero
	cmdRem                 // rem    v2 % v1, sign follows v2
	cmdLt                  // lt     1 if v2 < v1 else 0
	cmdGt                  // gt     1 if v2 > v1 else 0
	cmdEq                  // eq     1 if v2 == v1 else 0
	cmdPop                 // pop    discard v1
	cmdSwap                // swap   exchange v1 and v2
	cmdSel                 // sel    v1 if v3 == 0 else v2
	cmdNget                // nget   copy up the v1-th value from the top
	cmdExec                // exec   run the sequence v1

	cmdMax
)

var cmdTable [cmdMax]func(vm *VM) error
var cmdNames [cmdMax]string
var cmdByName map[string]Command

func init() {
	cmdTable = [...]func(vm *VM) error{
		(*VM).add,
		(*VM).sub,
		(*VM).mul,
		(*VM).div,
		(*VM).rem,
		(*VM).lt,
		(*VM).gt,
		(*VM).eq,
		(*VM).pop,
		(*VM).swap,
		(*VM).sel,
		(*VM).nget,
		(*VM).exec,
	}

	cmdNames = [...]string{
		"add",
		"sub",
		"mul",
		"div",
		"rem",
		"lt",
		"gt",
		"eq",
		"pop",
		"swap",
		"sel",
		"nget",
		"exec",
	}

	cmdByName = make(map[string]Command, cmdMax)
	for cmd := Command(0); cmd < cmdMax; cmd++ {
		if cmdTable[cmd] == nil || cmdNames[cmd] == "" {
			panic(fmt.Sprintf("incomplete command table entry %d", cmd))
		}
		cmdByName[cmdNames[cmd]] = cmd
	}
}

func (cmd Command) String() string {
	if cmd < cmdMax {
		return cmdNames[cmd]
	}
	return fmt.Sprintf("Command(%d)", uint8(cmd))
}

// lookupCommand returns the Command named by token, if there is one.
func lookupCommand(token string) (Command, bool) {
	cmd, ok := cmdByName[token]
	return cmd, ok
}

// CommandNames returns the names of every built-in command, in table order.
func CommandNames() []string {
	names := make([]string, cmdMax)
	copy(names, cmdNames[:])
	return names
}
