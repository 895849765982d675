package sync

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/romci/cli/internal/build"
	"github.com/romci/cli/internal/notify"
	"github.com/romci/cli/internal/source"
	"github.com/romci/cli/internal/ui"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/romci/cli/pkg/cmd/validation"
	"github.com/spf13/cobra"
)

func NewCmdSync(f *factory.Factory) *cobra.Command {
	var jobs int
	var notifyChat bool

	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "sync [flags]",
		Short:                 "Sync the ROM source tree",
		Args:                  cobra.NoArgs,
		Long: heredoc.Doc(`
			Runs a forced repo sync in the current source tree.

			A failed fast sync is retried once with a plain forced sync before
			giving up. With --notify, sync status is posted to the configured
			chat and updated as the sync finishes.
		`),
		PersistentPreRunE: validation.CheckValidConfiguration(f),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := f.Config
			driver := &build.Driver{Runner: f.Runner, Fs: f.Fs, Log: f.Logger}

			var msgID int64
			info := source.Detect(f.Fs, f.SourceRoot)
			msg := notify.Build{
				ROM:       info.ROMName,
				Device:    cfg.Device,
				Jobs:      jobs,
				Directory: f.SourceRoot,
				Branch:    info.Branch,
				Commit:    info.Commit,
			}

			if notifyChat {
				id, err := f.Notifier().SendMessage(ctx, cfg.ChatID, msg.Syncing())
				if err != nil {
					f.Logger.WithError(err).Warn("could not post sync status")
				} else {
					msgID = id
				}
			}

			start := time.Now()
			syncErr := driver.Sync(ctx, jobs)

			if msgID != 0 {
				text := msg.SyncDone(time.Since(start))
				if syncErr != nil {
					text = msg.SyncFailed()
				}
				if err := f.Notifier().EditMessage(ctx, cfg.ChatID, msgID, text); err != nil {
					f.Logger.WithError(err).Warn("could not update sync status")
				}
			}

			if syncErr != nil {
				return syncErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Render(fmt.Sprintf("%s Sources synced in %s",
				ui.IconSuccess, notify.FormatDuration(time.Since(start)))))
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", build.SyncJobs(), "Number of parallel sync jobs")
	cmd.Flags().BoolVar(&notifyChat, "notify", false, "Post sync status to the configured chat")
	cmd.Flags().SortFlags = false
	return cmd
}
