package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	names := CommandNames()
	assert.Len(t, names, int(cmdMax))
	for i, name := range names {
		cmd, ok := lookupCommand(name)
		if assert.True(t, ok, "expected to find command %q", name) {
			assert.Equal(t, Command(i), cmd)
			assert.Equal(t, name, cmd.String())
		}
	}

	names[0] = "nope"
	assert.Equal(t, "add", CommandNames()[0], "expected CommandNames to return a copy")

	for _, name := range []string{"ADD", "dup", "postfix", "", "(", "1"} {
		_, ok := lookupCommand(name)
		assert.False(t, ok, "expected %q to not be a command", name)
	}

	assert.Equal(t, "Command(200)", Command(200).String())
}
