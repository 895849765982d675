package build

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/romci/cli/internal/build"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/romci/cli/pkg/cmd/validation"
	"github.com/spf13/cobra"
)

func NewCmdBuild(f *factory.Factory) *cobra.Command {
	var opts pipelineOptions

	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "build [flags]",
		Short:                 "Build the ROM and distribute the artifacts",
		Args:                  cobra.NoArgs,
		Long: heredoc.Doc(`
			Runs the full pipeline from the current source tree: optionally
			sync sources, compile the ROM, resolve and upload the artifacts,
			and post status to the configured chat throughout.

			A failed sync is not fatal; compilation is attempted with the tree
			as it stands. A failed build posts the log to the error chat.
		`),
		PersistentPreRunE: validation.CheckValidConfiguration(f),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), f, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Sync, "sync", "s", false, "Sync sources before building")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", build.SyncJobs(), "Number of parallel sync jobs")
	cmd.Flags().BoolVar(&opts.Clean, "clean", false, "Remove the device output directory first")
	cmd.Flags().BoolVar(&opts.CleanAll, "clean-all", false, "Remove the entire out directory first")
	cmd.Flags().BoolVar(&opts.OptimizeDisk, "optimize-disk", false, "Tune host IO scheduling before building")
	cmd.Flags().BoolVarP(&opts.Web, "web", "w", false, "Open the ROM download link in a web browser afterwards")
	cmd.Flags().SortFlags = false
	return cmd
}
