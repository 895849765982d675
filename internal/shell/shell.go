// Package shell runs the external tools the pipeline glues together: the
// repo tool, the build system, rclone and the occasional maintenance script.
// Everything goes through the Runner interface so command execution can be
// faked in tests.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes external commands
type Runner interface {
	// Run executes a command, streaming its output to the process stdout/stderr
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its trimmed stdout
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Script executes a shell script line through bash -c, teeing combined
	// output to w when it is non-nil
	Script(ctx context.Context, script string, w io.Writer) error
}

type execRunner struct {
	log *logrus.Logger
}

// New returns a Runner backed by os/exec
func New(log *logrus.Logger) Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &execRunner{log: log}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) error {
	r.log.WithField("cmd", name+" "+strings.Join(args, " ")).Debug("running command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	r.log.WithField("cmd", name+" "+strings.Join(args, " ")).Debug("running command")

	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

func (r *execRunner) Script(ctx context.Context, script string, w io.Writer) error {
	r.log.WithField("script", script).Debug("running script")

	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	if w == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		// tee so the console still shows live output
		cmd.Stdout = io.MultiWriter(os.Stdout, w)
		cmd.Stderr = io.MultiWriter(os.Stderr, w)
	}
	return cmd.Run()
}
