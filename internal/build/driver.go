// Package build drives the source sync and compilation steps and inspects
// their results. The CLI is expected to run from the source tree root, the
// same convention the upstream build scripts assume.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/shell"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// LogFile receives the combined output of the compilation step
	LogFile = "build.log"

	// ErrorLog is where the build system writes its failure summary
	ErrorLog = "out/error.log"

	lockFile = "out/.lock"
)

// OutputDir is the product directory the build drops artifacts into
func OutputDir(device string) string {
	return filepath.Join("out", "target", "product", device)
}

// SyncJobs picks the repo sync parallelism: capped at 12, the point where
// more threads stop helping and start tripping rate limits.
func SyncJobs() int {
	if n := runtime.NumCPU(); n <= 8 {
		return n
	}
	return 12
}

// Driver invokes the repo and build tools as external processes
type Driver struct {
	Runner shell.Runner
	Fs     afero.Fs
	Log    *logrus.Logger
}

// Sync runs repo sync, retrying once with a plain forced sync when the fast
// variant fails.
func (d *Driver) Sync(ctx context.Context, jobs int) error {
	err := d.Runner.Run(ctx, "repo", "sync", "-c", fmt.Sprintf("-j%d", jobs),
		"--force-sync", "--no-clone-bundle", "--no-tags")
	if err == nil {
		return nil
	}

	d.Log.Warn("sync failed, retrying with a forced sync")
	if err := d.Runner.Run(ctx, "repo", "sync", "--force-sync"); err != nil {
		return errors.NewSyncFailedError(err, "repo sync")
	}
	return nil
}

// CleanOutput removes the whole out directory
func (d *Driver) CleanOutput() error {
	return d.Fs.RemoveAll("out")
}

// CleanDevice removes only the device product directory
func (d *Driver) CleanDevice(device string) error {
	return d.Fs.RemoveAll(OutputDir(device))
}

// PrepareLogs removes stale logs and locks from a previous run
func (d *Driver) PrepareLogs() {
	for _, path := range []string{ErrorLog, lockFile, LogFile} {
		if ok, _ := afero.Exists(d.Fs, path); ok {
			if err := d.Fs.Remove(path); err != nil {
				d.Log.WithError(err).Warnf("could not remove %s", path)
			}
		}
	}
}

// OptimizeDisk runs the host IO tuning script, fetching it when no local
// copy exists.
func (d *Driver) OptimizeDisk(ctx context.Context, home string) error {
	script := filepath.Join(home, "io.sh")
	if ok, _ := afero.Exists(d.Fs, script); ok {
		return d.Runner.Run(ctx, "bash", script)
	}

	d.Log.Info("downloading disk optimization script")
	return d.Runner.Script(ctx,
		"curl -s https://raw.githubusercontent.com/KanishkTheDerp/scripts/master/io.sh | bash", nil)
}

// Build sets up the build environment and compiles the ROM for the device
// and variant, teeing all output to LogFile. The timestamp pins
// BUILD_DATETIME and BUILD_NUMBER so artifacts are reproducible within a run.
func (d *Driver) Build(ctx context.Context, device, variant string, at time.Time) error {
	log, err := d.Fs.Create(LogFile)
	if err != nil {
		return err
	}
	defer log.Close()

	exports := fmt.Sprintf("export BUILD_DATETIME=%d BUILD_NUMBER=%s",
		at.UTC().Unix(), at.UTC().Format("20060102")+"00")

	// envsetup.sh resets some of the environment, so export twice
	script := fmt.Sprintf("%s && source build/envsetup.sh && %s && brunch %s %s",
		exports, exports, device, variant)

	if err := d.Runner.Script(ctx, script, log); err != nil {
		return errors.NewBuildFailedError(err, fmt.Sprintf("brunch %s %s", device, variant))
	}
	return nil
}
