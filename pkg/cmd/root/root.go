package root

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/romci/cli/internal/config"
	buildCmd "github.com/romci/cli/pkg/cmd/build"
	cleanCmd "github.com/romci/cli/pkg/cmd/clean"
	configureCmd "github.com/romci/cli/pkg/cmd/configure"
	"github.com/romci/cli/pkg/cmd/factory"
	resolveCmd "github.com/romci/cli/pkg/cmd/resolve"
	syncCmd "github.com/romci/cli/pkg/cmd/sync"
	uploadCmd "github.com/romci/cli/pkg/cmd/upload"
	versionCmd "github.com/romci/cli/pkg/cmd/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewCmdRoot(f *factory.Factory) (*cobra.Command, error) {
	// run every parent persistent hook, not just the closest one, so the
	// global flags below apply before each command's own validation
	cobra.EnableTraverseRunHooks = true

	var (
		quiet      bool
		debug      bool
		yes        bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "romci <command> [flags]",
		Short: "ROM build pipeline",
		Long:  "Sync, build, package and distribute Android ROMs from the command line.",
		Example: heredoc.Doc(`
			# run the full pipeline: sync, build, upload, notify
			$ romci build --sync

			# see what would be distributed without uploading anything
			$ romci resolve
		`),
		Version:       versionCmd.Format(f.Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case debug:
				f.Logger.SetLevel(logrus.DebugLevel)
			case quiet:
				f.Logger.SetLevel(logrus.ErrorLevel)
			}
			f.Quiet = quiet
			f.SkipConfirm = yes

			if cmd.Root().PersistentFlags().Changed("config") {
				f.ConfigPath = configPath
				f.Config, f.ConfigError = config.Load(f.Fs, configPath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors and the final result")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debugging output")
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "Skip all confirmation prompts")
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the config env file")

	cmd.AddCommand(buildCmd.NewCmdBuild(f))
	cmd.AddCommand(syncCmd.NewCmdSync(f))
	cmd.AddCommand(cleanCmd.NewCmdClean(f))
	cmd.AddCommand(resolveCmd.NewCmdResolve(f))
	cmd.AddCommand(uploadCmd.NewCmdUpload(f))
	cmd.AddCommand(configureCmd.NewCmdConfigure(f))
	cmd.AddCommand(versionCmd.NewCmdVersion(f))

	return cmd, nil
}
