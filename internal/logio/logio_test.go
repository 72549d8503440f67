package logio_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jcorbin/gopostfix/internal/logio"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var out strings.Builder
	log := logio.NewLogger(&out)

	log.Printf("INFO", "hello %v", "world")
	log.Printf("", "bare\n")
	assert.Equal(t, 0, log.ExitCode(), "expected no error exit yet")

	log.Leveledf("TRACE")("step %v", 3)
	log.ErrorIf(nil)
	log.ErrorIf(errors.New("bang"))
	assert.Equal(t, 1, log.ExitCode(), "expected error exit code")

	assert.Equal(t, strings.Join([]string{
		"INFO: hello world",
		"bare",
		"TRACE: step 3",
		"ERROR: bang",
	}, "\n")+"\n", out.String())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("nope") }

func TestLogger_writeError(t *testing.T) {
	log := logio.NewLogger(failWriter{})
	log.Printf("INFO", "lost")
	assert.Equal(t, 2, log.ExitCode(), "expected io error exit code")
}

func TestWriter(t *testing.T) {
	var lines []string
	lw := &logio.Writer{Logf: func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}}

	fmt.Fprintf(lw, "one\ntw")
	assert.Equal(t, []string{"one"}, lines, "expected only completed lines")

	fmt.Fprintf(lw, "o\nthree")
	assert.Equal(t, []string{"one", "two"}, lines)

	assert.NoError(t, lw.Close())
	assert.Equal(t, []string{"one", "two", "three"}, lines, "expected close to flush")
}
