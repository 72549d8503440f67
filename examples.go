package main

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jcorbin/gopostfix/internal/flushio"
)

//go:embed examples.toml
var examplesTOML string

type example struct {
	Name    string
	Note    string
	Program string
	Args    string
	Result  string
}

func (ex example) String() string {
	if ex.Args == "" {
		return ex.Program
	}
	return fmt.Sprintf("%v %v", ex.Program, ex.Args)
}

func loadExamples() ([]example, error) {
	var catalogue struct {
		Example []example
	}
	if _, err := toml.Decode(examplesTOML, &catalogue); err != nil {
		return nil, fmt.Errorf("invalid example catalogue: %w", err)
	}
	return catalogue.Example, nil
}

// runExamples runs the example catalogue, printing each program with its
// result, and returns how many did not produce their recorded result.
func runExamples(ctx context.Context, out *flushio.Printer, timeout time.Duration, opts []VMOption) (failed int, err error) {
	examples, err := loadExamples()
	if err != nil {
		return 0, err
	}
	for _, ex := range examples {
		runCtx, cancel := withTimeout(ctx, timeout)
		res := Result(runCtx, ex.Program, ex.Args, opts...)
		cancel()
		mark := "ok"
		if res != ex.Result {
			mark = "FAIL"
			failed++
		}
		out.Println(fmt.Sprintf("%v\t%v", mark, ex.Name))
		if ex.Note != "" {
			out.Println("  # " + ex.Note)
		}
		out.Println("  " + ex.String())
		out.Println("  => " + res)
		if res != ex.Result {
			out.Println("  expected " + ex.Result)
		}
	}
	return failed, out.Flush()
}
