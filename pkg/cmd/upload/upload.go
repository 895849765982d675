package upload

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/pkg/browser"
	"github.com/romci/cli/internal/artifact"
	"github.com/romci/cli/internal/artifact/bundle"
	"github.com/romci/cli/internal/artifact/resolver"
	"github.com/romci/cli/internal/build"
	"github.com/romci/cli/internal/io"
	"github.com/romci/cli/internal/ui"
	"github.com/romci/cli/internal/upload"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/romci/cli/pkg/cmd/validation"
	"github.com/spf13/cobra"
)

func NewCmdUpload(f *factory.Factory) *cobra.Command {
	var dir string
	var web bool

	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "upload [flags]",
		Short:                 "Upload the artifacts of an existing build",
		Args:                  cobra.NoArgs,
		Long: heredoc.Doc(`
			Resolves the artifact set in the build output directory, creates
			the install zip when one is called for, and uploads everything:
			the ROM archive to cloud storage, the rest to the mirror host.

			Useful to redistribute a build that already finished, without
			compiling again.
		`),
		PersistentPreRunE: validation.CheckValidConfiguration(f),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = build.OutputDir(f.Config.Device)
			}
			return uploadRun(cmd.Context(), f, dir, web)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory to upload from (default: the device product directory)")
	cmd.Flags().BoolVarP(&web, "web", "w", false, "Open the ROM download link in a web browser afterwards")
	cmd.Flags().SortFlags = false
	return cmd
}

// NewDispatcher wires the configured upload targets. The ROM archive goes to
// the rclone remote when one is configured, otherwise everything goes to the
// mirror host.
func NewDispatcher(f *factory.Factory) *upload.Dispatcher {
	mirror := upload.NewGofile()

	var rom upload.Uploader = mirror
	if f.Config.RcloneRemote != "" {
		rom = &upload.Rclone{
			Runner: f.Runner,
			Remote: f.Config.RcloneRemote,
			Folder: f.Config.RcloneFolder,
		}
	}

	return &upload.Dispatcher{ROM: rom, Mirror: mirror, Log: f.Logger}
}

func uploadRun(ctx context.Context, f *factory.Factory, dir string, web bool) error {
	plan, err := resolver.Resolve(f.Fs, dir, resolver.Options{
		Device:     f.Config.Device,
		Allowlist:  f.Config.InstallZipDevices,
		SourceRoot: f.SourceRoot,
	})
	if err != nil {
		return err
	}

	if plan.Auxiliary == artifact.AuxInstallZip {
		path, err := bundle.Create(f.Fs, plan, f.Config.BoardRequirement())
		if err != nil {
			f.Logger.WithError(err).Warn("could not create install zip, distributing the ROM alone")
			plan.Auxiliary = artifact.AuxNone
		} else {
			plan.AuxiliaryPath = path
		}
	}

	links, err := dispatch(ctx, f, plan)
	if err != nil {
		return err
	}

	fmt.Printf("ROM: %s\n", links.ROM)
	if links.Auxiliary != "" {
		fmt.Printf("%s: %s\n", plan.Auxiliary, links.Auxiliary)
	}
	if links.OTA != "" {
		fmt.Printf("OTA descriptor: %s\n", links.OTA)
	}

	if web {
		if err := browser.OpenURL(links.ROM); err != nil {
			f.Logger.WithError(err).Warn("could not open browser")
		}
	}
	return nil
}

// dispatch uploads the plan, behind a spinner only when there is a terminal
// to draw it on. The quiet and headless paths run the dispatcher directly so
// an upload failure always reaches the caller.
func dispatch(ctx context.Context, f *factory.Factory, plan *artifact.Plan) (*upload.Links, error) {
	if f.Quiet || !isatty.IsTerminal(os.Stdout.Fd()) {
		return NewDispatcher(f).Dispatch(ctx, plan)
	}

	var links *upload.Links
	err := io.RunPending(func() tea.Msg {
		var err error
		links, err = NewDispatcher(f).Dispatch(ctx, plan)
		if err != nil {
			return err
		}
		return io.PendingOutput(fmt.Sprintf("Uploaded %s", plan.ROMName()))
	}, fmt.Sprintf("Uploading %s", ui.TruncateText(plan.ROMName(), 48)))
	if err != nil {
		return nil, err
	}
	return links, nil
}
