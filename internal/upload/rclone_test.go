package upload_test

import (
	"context"
	"errors"
	"testing"

	romciErrors "github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/shell/shelltest"
	"github.com/romci/cli/internal/upload"
)

func TestRcloneUpload(t *testing.T) {
	t.Parallel()

	t.Run("copies then links", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		runner.Outputs["rclone link"] = "https://drive.example.com/rom-zircon-signed.zip"

		r := &upload.Rclone{Runner: runner, Remote: "gdrive", Folder: "releases"}
		link, err := r.Upload(context.Background(), "out/target/product/zircon/rom-zircon-signed.zip")
		if err != nil {
			t.Fatal(err)
		}

		if link != "https://drive.example.com/rom-zircon-signed.zip" {
			t.Errorf("link = %q", link)
		}
		if !runner.CalledWith("rclone copy out/target/product/zircon/rom-zircon-signed.zip gdrive:releases") {
			t.Errorf("unexpected copy invocation: %v", runner.Calls())
		}
		if !runner.CalledWith("rclone link gdrive:releases/rom-zircon-signed.zip") {
			t.Errorf("unexpected link invocation: %v", runner.Calls())
		}
	})

	t.Run("failed copy is an upload error", func(t *testing.T) {
		t.Parallel()

		runner := shelltest.New()
		runner.Errors["rclone copy"] = errors.New("exit status 1")

		r := &upload.Rclone{Runner: runner, Remote: "gdrive", Folder: "releases"}
		_, err := r.Upload(context.Background(), "rom.zip")
		if !romciErrors.IsUploadError(err) {
			t.Errorf("expected an upload error, got %v", err)
		}
	})
}
