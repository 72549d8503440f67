// Package panicerr converts abnormal goroutine exits into ordinary errors, so
// that a bug in one interpreter run fails only that run.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in a new goroutine, returning its error; any panic, or call
// to runtime.Goexit, made by f is returned as an error instead.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go recoverTo(errch, name, f)
	return <-errch
}

// recoverTo sends exactly one error for f's outcome, then closes errch.
func recoverTo(errch chan<- error, name string, f func() error) {
	sent := false
	defer close(errch)
	defer func() {
		if !sent {
			errch <- exitError(name)
		}
	}()
	defer func() {
		if e := recover(); e != nil {
			sent = true
			errch <- panicError{name: name, value: e, stack: debug.Stack()}
		}
	}()
	err := f()
	sent = true
	errch <- err
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

type panicError struct {
	name  string
	value interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

// Format adds the panic stack to the error text under the %+v verb.
func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.value)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.value)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (pe panicError) Unwrap() error {
	err, _ := pe.value.(error)
	return err
}

// IsExit returns true if err records a recovered runtime.Goexit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}

// IsPanic returns true if err records a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// Stack returns the goroutine stack captured at a recovered panic, or "".
func Stack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
