package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	replBanner     = "POSTFIX INTERPRETER"
	argumentPrompt = "Type the arguments: "
)

// prompter reads one line of input after showing a prompt; implemented by
// *liner.State.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// session runs programs interactively: it prompts for a program, then for
// its arguments if it needs any, and prints the result. An empty program line
// ends the session.
type session struct {
	cfg  config
	opts []VMOption
	in   prompter
	out  io.Writer

	// if set, called with each line worth remembering
	remember func(line string)
}

func (s session) run(ctx context.Context) error {
	fmt.Fprintln(s.out, replBanner)
	for {
		fmt.Fprintln(s.out, "------------------------")
		program, err := s.in.Prompt(s.cfg.Prompt)
		if isPromptEnd(err) || (err == nil && strings.TrimSpace(program) == "") {
			return nil
		} else if err != nil {
			return err
		}
		if s.remember != nil {
			s.remember(program)
		}
		if err := s.eval(ctx, program); isPromptEnd(err) {
			return nil
		} else if err != nil {
			return err
		}
	}
}

func (s session) eval(ctx context.Context, program string) error {
	argc, err := Check(program)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return nil
	}

	var arguments string
	if argc > 0 {
		if arguments, err = s.in.Prompt(argumentPrompt); err != nil {
			return err
		}
	}

	ctx, cancel := withTimeout(ctx, s.cfg.Timeout.Duration)
	defer cancel()
	val, err := Run(ctx, program, arguments, s.opts...)
	if isSyntaxError(err) {
		fmt.Fprintln(s.out, err)
	} else {
		fmt.Fprintf(s.out, "output  %v\n", FormatResult(val, err))
	}
	return nil
}

func isPromptEnd(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}

// runREPL runs an interactive session on the terminal, with line editing and
// persistent history.
func runREPL(ctx context.Context, cfg config, opts []VMOption) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeCommand)

	if path := cfg.historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	return session{
		cfg:      cfg,
		opts:     opts,
		in:       ln,
		out:      os.Stdout,
		remember: ln.AppendHistory,
	}.run(ctx)
}

// completeCommand completes the last word of line to a command name.
func completeCommand(line string) (completions []string) {
	i := strings.LastIndexAny(line, " \t()") + 1
	prefix, word := line[:i], line[i:]
	if word == "" {
		return nil
	}
	for _, name := range CommandNames() {
		if strings.HasPrefix(name, word) {
			completions = append(completions, prefix+name)
		}
	}
	return completions
}
