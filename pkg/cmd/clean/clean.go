package clean

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/romci/cli/internal/build"
	"github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/io"
	"github.com/romci/cli/internal/ui"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/romci/cli/pkg/cmd/validation"
	"github.com/spf13/cobra"
)

func NewCmdClean(f *factory.Factory) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "clean [flags]",
		Short:                 "Remove build output",
		Args:                  cobra.NoArgs,
		Long: heredoc.Doc(`
			Removes the product output directory for the configured device,
			forcing the next build to repack its artifacts. With --all the
			entire out directory is removed for a full rebuild.
		`),
		PersistentPreRunE: validation.CheckValidConfiguration(f),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := build.OutputDir(f.Config.Device)
			if all {
				target = "out"
			}

			confirmed := f.SkipConfirm
			if err := io.Confirm(&confirmed, fmt.Sprintf("Remove %s?", target)); err != nil {
				return err
			}
			if !confirmed {
				return errors.NewUserAbortedError(nil, "clean cancelled")
			}

			driver := &build.Driver{Runner: f.Runner, Fs: f.Fs, Log: f.Logger}
			var err error
			if all {
				err = driver.CleanOutput()
			} else {
				err = driver.CleanDevice(f.Config.Device)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Render(fmt.Sprintf("%s Removed %s", ui.IconSuccess, target)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove the entire out directory instead of the device output")
	return cmd
}
