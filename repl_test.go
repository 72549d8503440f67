package main

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptPrompter answers prompts from a fixed script, then with its end error.
type scriptPrompter struct {
	script  []string
	end     error
	prompts []string
}

func (sp *scriptPrompter) Prompt(prompt string) (string, error) {
	sp.prompts = append(sp.prompts, prompt)
	if len(sp.script) == 0 {
		return "", sp.end
	}
	line := sp.script[0]
	sp.script = sp.script[1:]
	return line, nil
}

func runTestSession(t *testing.T, sp *scriptPrompter) (string, []string) {
	var out strings.Builder
	var remembered []string
	require.NoError(t, session{
		cfg: defaultConfig,
		in:  sp,
		out: &out,
		remember: func(line string) {
			remembered = append(remembered, line)
		},
	}.run(context.Background()))
	return out.String(), remembered
}

func TestSession(t *testing.T) {
	sp := &scriptPrompter{script: []string{
		"(postfix 2 sub)", "7 3",
		"(postfix 0 1 2 dup)",
		"(postfix 0 1 0 div)",
		"(postfix 1)", "x",
		"(postfix 0 (1 (2 3)))",
		"",
		"(postfix 0 99)",
	}}
	out, remembered := runTestSession(t, sp)
	assert.Equal(t, lines(
		"POSTFIX INTERPRETER",
		"------------------------",
		"output  4",
		"------------------------",
		"syntax error: bad command dup",
		"------------------------",
		"output  runtime error: div: illegal operation by zero",
		"------------------------",
		"syntax error: bad argument: x",
		"------------------------",
		"output  (1 (2 3))",
		"------------------------",
	), out)
	assert.Equal(t, []string{
		"(postfix 2 sub)",
		"(postfix 0 1 2 dup)",
		"(postfix 0 1 0 div)",
		"(postfix 1)",
		"(postfix 0 (1 (2 3)))",
	}, remembered)
	assert.Equal(t, []string{
		defaultConfig.Prompt, argumentPrompt,
		defaultConfig.Prompt,
		defaultConfig.Prompt,
		defaultConfig.Prompt, argumentPrompt,
		defaultConfig.Prompt,
		defaultConfig.Prompt,
	}, sp.prompts)
	assert.Equal(t, []string{"(postfix 0 99)"}, sp.script, "expected session to end at the empty line")
}

func TestSession_ends(t *testing.T) {
	for _, tc := range []struct {
		name string
		end  error
	}{
		{"eof", io.EOF},
		{"aborted", liner.ErrPromptAborted},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, _ := runTestSession(t, &scriptPrompter{
				script: []string{"(postfix 0 5)", "(postfix 1 add)"},
				end:    tc.end,
			})
			assert.Equal(t, lines(
				"POSTFIX INTERPRETER",
				"------------------------",
				"output  5",
				"------------------------",
			), out)
		})
	}
}

func TestSession_timeout(t *testing.T) {
	var out strings.Builder
	cfg := defaultConfig
	cfg.Timeout.Duration = 1
	require.NoError(t, session{
		cfg: cfg,
		in:  &scriptPrompter{script: []string{"(postfix 0 (1 nget exec) 1 nget exec)"}, end: io.EOF},
		out: &out,
	}.run(context.Background()))
	assert.Contains(t, out.String(), "output  runtime error: halt: context deadline exceeded")
}

func TestCompleteCommand(t *testing.T) {
	for _, tc := range []struct {
		line string
		want []string
	}{
		{"", nil},
		{"(postfix 0 1 2 ad", []string{"(postfix 0 1 2 add"}},
		{"(postfix 0 (s", []string{"(postfix 0 (sub", "(postfix 0 (swap", "(postfix 0 (sel"}},
		{"(postfix 0 1 2 ", nil},
		{"(postfix 0 x", nil},
	} {
		assert.Equal(t, tc.want, completeCommand(tc.line), "completing %q", tc.line)
	}
}
