package upload

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/romci/cli/internal/config"
	cliErrors "github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/shell/shelltest"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func testFactory(fs afero.Fs, runner *shelltest.Runner) *factory.Factory {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return &factory.Factory{
		Config: &config.Config{
			Device:       "zircon",
			Variant:      "userdebug",
			BotToken:     "123:abc",
			ChatID:       "-100",
			RcloneRemote: "gdrive",
			RcloneFolder: "releases",
		},
		Fs:     fs,
		Runner: runner,
		Logger: log,
	}
}

func TestUploadRun(t *testing.T) {
	t.Parallel()

	dir := "out/target/product/zircon"

	t.Run("uploads the rom and reports the link", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, dir+"/rom-zircon-signed.zip", []byte("zip"), 0o644); err != nil {
			t.Fatal(err)
		}

		runner := shelltest.New()
		runner.Outputs["rclone link"] = "https://drive.example.com/rom-zircon-signed.zip"

		f := testFactory(fs, runner)
		if err := uploadRun(context.Background(), f, dir, false); err != nil {
			t.Fatal(err)
		}

		if !runner.CalledWith("rclone copy " + dir + "/rom-zircon-signed.zip gdrive:releases") {
			t.Errorf("expected the ROM to be copied, got %v", runner.Calls())
		}
	})

	t.Run("a failed upload reaches the caller", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, dir+"/rom-zircon-signed.zip", []byte("zip"), 0o644); err != nil {
			t.Fatal(err)
		}

		runner := shelltest.New()
		runner.Errors["rclone copy"] = errors.New("quota exceeded")

		err := uploadRun(context.Background(), testFactory(fs, runner), dir, false)
		if !cliErrors.IsUploadError(err) {
			t.Errorf("expected an upload error, got %v", err)
		}
	})

	t.Run("a missing rom is a missing artifact error", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}

		err := uploadRun(context.Background(), testFactory(fs, shelltest.New()), dir, false)
		if !cliErrors.IsMissingArtifact(err) {
			t.Errorf("expected a missing artifact error, got %v", err)
		}
	})
}
