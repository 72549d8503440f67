package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/jcorbin/gopostfix/internal/flushio"
	"github.com/jcorbin/gopostfix/internal/logio"
	"github.com/jcorbin/gopostfix/internal/srcinput"
)

func main() {
	log := logio.NewLogger(os.Stderr)
	log.ErrorIf(run(context.Background(), log))
	os.Exit(log.ExitCode())
}

func run(ctx context.Context, log *logio.Logger) error {
	var (
		configPath string
		timeout    time.Duration
		trace      bool
		steps      uint
		jobs       int
		dump       bool
		serveLsp   bool
		examples   bool
	)
	flag.StringVar(&configPath, "config", defaultConfigPath(), "load settings from a TOML file")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit for each program")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.UintVar(&steps, "steps", 0, "limit how many instructions each program may run")
	flag.IntVar(&jobs, "jobs", defaultConfig.Jobs, "how many batch programs to run at once")
	flag.BoolVar(&dump, "dump", false, "dump machine state after any failed run")
	flag.BoolVar(&serveLsp, "lsp", false, "serve the language server protocol on stdio")
	flag.BoolVar(&examples, "examples", false, "run the built-in example programs")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(configPath, set["config"])
	if err != nil {
		return err
	}
	if set["timeout"] {
		cfg.Timeout.Duration = timeout
	}
	if set["trace"] {
		cfg.Trace = trace
	}
	if set["steps"] {
		cfg.StepLimit = steps
	}
	if set["jobs"] {
		cfg.Jobs = jobs
	}

	opts := cfg.vmOptions(log.Leveledf("TRACE"))
	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		opts = append(opts, WithDump(lw))
	}

	out := &flushio.Printer{WriteFlusher: flushio.NewWriteFlusher(os.Stdout)}

	switch {
	case serveLsp:
		return serveLSP(ctx, stdio{os.Stdin, os.Stdout})

	case examples:
		failed, err := runExamples(ctx, out, cfg.Timeout.Duration, opts)
		if err == nil && failed > 0 {
			log.Errorf("%v examples did not produce their expected result", failed)
		}
		return err

	case flag.NArg() > 0 || !isTerminal(os.Stdin):
		in, err := openInputs(flag.Args())
		if err != nil {
			return err
		}
		defer in.Close()
		failed, err := batch{
			in:      in,
			out:     out,
			jobs:    cfg.Jobs,
			timeout: cfg.Timeout.Duration,
			opts:    opts,
		}.run(ctx)
		if err == nil && failed > 0 {
			log.Errorf("%v programs failed", failed)
		}
		return err

	default:
		return runREPL(ctx, cfg, opts)
	}
}

// openInputs opens each named file, with "-" meaning stdin; no names means
// just stdin.
func openInputs(names []string) (*srcinput.Input, error) {
	var in srcinput.Input
	if len(names) == 0 {
		names = []string{"-"}
	}
	for _, name := range names {
		if name == "-" {
			in.Queue = append(in.Queue, srcinput.Named("<stdin>", os.Stdin))
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		in.Queue = append(in.Queue, f)
	}
	return &in, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
