// Package upload pushes resolved artifacts to remote storage. The ROM
// archive goes to durable cloud storage through rclone; the install zip and
// OTA descriptor go to a temporary file host for quick distribution.
package upload

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/shell"
)

// Rclone uploads files to a configured rclone remote and resolves a public
// link for them.
type Rclone struct {
	Runner shell.Runner
	Remote string
	Folder string
}

// Upload copies the file to the remote folder and returns its shared link
func (r *Rclone) Upload(ctx context.Context, path string) (string, error) {
	target := fmt.Sprintf("%s:%s", r.Remote, r.Folder)
	if err := r.Runner.Run(ctx, "rclone", "copy", path, target); err != nil {
		return "", errors.NewUploadError(err, fmt.Sprintf("rclone copy to %s", target))
	}

	link, err := r.Runner.Output(ctx, "rclone", "link",
		fmt.Sprintf("%s/%s", target, filepath.Base(path)))
	if err != nil {
		return "", errors.NewUploadError(err, "rclone link")
	}
	return link, nil
}
