package build_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/romci/cli/internal/build"
	romciErrors "github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/shell/shelltest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func newDriver(runner *shelltest.Runner, fs afero.Fs) *build.Driver {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &build.Driver{Runner: runner, Fs: fs, Log: log}
}

func TestSync(t *testing.T) {
	t.Parallel()

	t.Run("fast sync succeeds on the first try", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		d := newDriver(runner, afero.NewMemMapFs())

		if err := d.Sync(context.Background(), 12); err != nil {
			t.Fatal(err)
		}

		calls := runner.Calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if !strings.Contains(calls[0].String(), "--no-clone-bundle") {
			t.Errorf("fast sync should use --no-clone-bundle, got %q", calls[0])
		}
	})

	t.Run("failed fast sync retries with a forced sync", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		runner.Errors["repo sync -c"] = errors.New("exit status 1")
		d := newDriver(runner, afero.NewMemMapFs())

		if err := d.Sync(context.Background(), 12); err != nil {
			t.Fatal(err)
		}

		if !runner.CalledWith("repo sync --force-sync") {
			t.Error("expected a forced sync retry")
		}
	})

	t.Run("both attempts failing is a sync error", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		runner.Errors["repo sync"] = errors.New("exit status 1")
		d := newDriver(runner, afero.NewMemMapFs())

		err := d.Sync(context.Background(), 12)
		if !romciErrors.IsSyncFailed(err) {
			t.Errorf("expected a sync failure, got %v", err)
		}
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("runs brunch with pinned build stamps", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		fs := afero.NewMemMapFs()
		d := newDriver(runner, fs)

		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		if err := d.Build(context.Background(), "zircon", "userdebug", at); err != nil {
			t.Fatal(err)
		}

		calls := runner.Calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		script := calls[0].String()
		for _, want := range []string{
			"source build/envsetup.sh",
			"brunch zircon userdebug",
			"BUILD_NUMBER=2025060100",
		} {
			if !strings.Contains(script, want) {
				t.Errorf("build script should contain %q, got %q", want, script)
			}
		}

		if ok, _ := afero.Exists(fs, build.LogFile); !ok {
			t.Error("build should create the log file")
		}
	})

	t.Run("non-zero exit is a build failure", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		runner.Errors["bash -c"] = errors.New("exit status 1")
		d := newDriver(runner, afero.NewMemMapFs())

		err := d.Build(context.Background(), "zircon", "userdebug", time.Now())
		if !romciErrors.IsBuildFailed(err) {
			t.Errorf("expected a build failure, got %v", err)
		}
	})
}

func TestPrepareLogs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	for _, path := range []string{"out/error.log", "out/.lock", "build.log", "out/soong.log"} {
		if err := afero.WriteFile(fs, path, []byte("stale"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	d := newDriver(shelltest.New(), fs)
	d.PrepareLogs()

	for _, path := range []string{"out/error.log", "out/.lock", "build.log"} {
		if ok, _ := afero.Exists(fs, path); ok {
			t.Errorf("%s should have been removed", path)
		}
	}
	if ok, _ := afero.Exists(fs, "out/soong.log"); !ok {
		t.Error("unrelated files should be left alone")
	}
}

func TestOutputDir(t *testing.T) {
	t.Parallel()

	if got := build.OutputDir("zircon"); got != "out/target/product/zircon" {
		t.Errorf("OutputDir = %q", got)
	}
}
