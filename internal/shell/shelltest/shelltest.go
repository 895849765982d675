// Package shelltest provides a fake Runner for tests.
package shelltest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Call records one invocation made against the fake runner
type Call struct {
	Name string
	Args []string
}

// String renders the call the way it would appear on a command line
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner is a fake shell.Runner recording calls and replaying canned results
type Runner struct {
	mu    sync.Mutex
	calls []Call

	// Errors maps a call string prefix to the error returned for it
	Errors map[string]error

	// Outputs maps a call string prefix to the stdout returned by Output
	Outputs map[string]string
}

// New returns an empty fake runner
func New() *Runner {
	return &Runner{
		Errors:  map[string]error{},
		Outputs: map[string]string{},
	}
}

// Calls returns a copy of the recorded invocations
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CalledWith reports whether any recorded call starts with prefix
func (r *Runner) CalledWith(prefix string) bool {
	for _, c := range r.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}

func (r *Runner) record(name string, args ...string) Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Call{Name: name, Args: args}
	r.calls = append(r.calls, c)
	return c
}

func (r *Runner) lookupErr(c Call) error {
	for prefix, err := range r.Errors {
		if strings.HasPrefix(c.String(), prefix) {
			return err
		}
	}
	return nil
}

func (r *Runner) Run(_ context.Context, name string, args ...string) error {
	return r.lookupErr(r.record(name, args...))
}

func (r *Runner) Output(_ context.Context, name string, args ...string) (string, error) {
	c := r.record(name, args...)
	if err := r.lookupErr(c); err != nil {
		return "", err
	}
	for prefix, out := range r.Outputs {
		if strings.HasPrefix(c.String(), prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (r *Runner) Script(_ context.Context, script string, w io.Writer) error {
	c := r.record("bash", "-c", script)
	if w != nil {
		for prefix, out := range r.Outputs {
			if strings.HasPrefix(c.String(), prefix) {
				fmt.Fprint(w, out)
			}
		}
	}
	return r.lookupErr(c)
}
