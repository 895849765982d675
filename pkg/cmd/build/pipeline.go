package build

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/romci/cli/internal/artifact"
	"github.com/romci/cli/internal/artifact/bundle"
	"github.com/romci/cli/internal/artifact/resolver"
	"github.com/romci/cli/internal/build"
	"github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/io"
	"github.com/romci/cli/internal/notify"
	"github.com/romci/cli/internal/source"
	"github.com/romci/cli/internal/ui"
	"github.com/spf13/afero"

	"github.com/romci/cli/pkg/cmd/factory"
	uploadCmd "github.com/romci/cli/pkg/cmd/upload"
)

// progressInterval is how often the chat status message is refreshed while
// the build runs
const progressInterval = 10 * time.Second

type pipelineOptions struct {
	Sync         bool
	Jobs         int
	Clean        bool
	CleanAll     bool
	OptimizeDisk bool
	Web          bool
}

// pipeline holds the state threaded through one build run
type pipeline struct {
	f      *factory.Factory
	opts   pipelineOptions
	driver *build.Driver
	msg    notify.Build

	// statusID is the chat message edited into the final summary
	statusID int64
}

func runPipeline(ctx context.Context, f *factory.Factory, opts pipelineOptions) error {
	info := source.Detect(f.Fs, f.SourceRoot)

	p := &pipeline{
		f:      f,
		opts:   opts,
		driver: &build.Driver{Runner: f.Runner, Fs: f.Fs, Log: f.Logger},
		msg: notify.Build{
			ROM:            info.ROMName,
			Device:         f.Config.Device,
			AndroidVersion: info.AndroidVersion,
			Type:           f.Config.Type(),
			Jobs:           opts.Jobs,
			Directory:      f.SourceRoot,
			Branch:         info.Branch,
			Commit:         info.Commit,
		},
	}

	if opts.OptimizeDisk {
		home, _ := os.UserHomeDir()
		if err := p.driver.OptimizeDisk(ctx, home); err != nil {
			f.Logger.WithError(err).Warn("disk optimization failed, continuing")
		}
	}

	if opts.Sync {
		p.sync(ctx)
	}

	if opts.CleanAll {
		if err := p.driver.CleanOutput(); err != nil {
			return err
		}
	} else if opts.Clean {
		if err := p.driver.CleanDevice(f.Config.Device); err != nil {
			return err
		}
	}
	p.driver.PrepareLogs()

	took, err := p.compile(ctx)
	if err != nil {
		return err
	}

	if err := p.distribute(ctx, took); err != nil {
		return err
	}

	return p.poweroff(ctx)
}

// sync runs repo sync with chat status updates. Failure is not fatal, the
// build is attempted with whatever the tree holds.
func (p *pipeline) sync(ctx context.Context) {
	cfg := p.f.Config
	msgID := p.send(ctx, cfg.ChatID, p.msg.Syncing())

	start := time.Now()
	if err := p.driver.Sync(ctx, p.opts.Jobs); err != nil {
		p.f.Logger.WithError(err).Warn("sync failed, building with the existing tree")
		p.edit(ctx, cfg.ChatID, msgID, p.msg.SyncFailed())
		return
	}
	p.edit(ctx, cfg.ChatID, msgID, p.msg.SyncDone(time.Since(start)))
}

// compile runs the build, refreshing the chat status with ninja progress
// while it is in flight. The build log, not the exit status, is the
// authority on success.
func (p *pipeline) compile(ctx context.Context) (time.Duration, error) {
	cfg := p.f.Config
	msgID := p.send(ctx, cfg.ChatID, p.msg.Compiling(build.Initializing))

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- p.driver.Build(ctx, cfg.Device, cfg.Variant, start)
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	last := build.Initializing
	lineShown := false
	var buildErr error
loop:
	for {
		select {
		case buildErr = <-done:
			break loop
		case <-ticker.C:
			if completed, total, ok := build.Counts(p.f.Fs, build.LogFile); ok {
				fmt.Fprintf(os.Stderr, "\r%s", io.ProgressLine("compiling", completed, total, 24))
				lineShown = true
			}
			if progress := build.Progress(p.f.Fs, build.LogFile); progress != last {
				last = progress
				p.edit(ctx, cfg.ChatID, msgID, p.msg.Compiling(progress))
			}
		}
	}
	if lineShown {
		fmt.Fprintln(os.Stderr)
	}
	took := time.Since(start)

	outDir := build.OutputDir(cfg.Device)
	if !build.Succeeded(p.f.Fs, build.LogFile, outDir, cfg.Device, p.f.Logger) {
		p.edit(ctx, cfg.ChatID, msgID, p.msg.Failure())
		p.sendLog(ctx)
		if buildErr != nil {
			return took, buildErr
		}
		return took, errors.NewBuildFailedError(nil,
			fmt.Sprintf("no success marker in %s and no ROM zip in %s", build.LogFile, outDir))
	}

	// stash the status message id for the success edit
	p.statusID = msgID
	return took, nil
}

// distribute resolves the artifact set, synthesizes the install zip when
// called for, uploads everything and posts the pinned summary.
func (p *pipeline) distribute(ctx context.Context, took time.Duration) error {
	cfg := p.f.Config

	plan, err := resolver.Resolve(p.f.Fs, build.OutputDir(cfg.Device), resolver.Options{
		Device:     cfg.Device,
		Allowlist:  cfg.InstallZipDevices,
		SourceRoot: p.f.SourceRoot,
	})
	if err != nil {
		p.send(ctx, cfg.ErrorChat(), p.msg.Failure())
		p.sendLog(ctx)
		return err
	}

	if plan.Auxiliary == artifact.AuxInstallZip {
		path, err := bundle.Create(p.f.Fs, plan, cfg.BoardRequirement())
		if err != nil {
			p.f.Logger.WithError(err).Warn("could not create install zip, distributing the ROM alone")
			plan.Auxiliary = artifact.AuxNone
			plan.Warn("install zip creation failed")
		} else {
			plan.AuxiliaryPath = path
		}
	}

	var md5sum string
	var md5err error
	_ = io.SpinWhile(p.f.Quiet, "Computing checksum", func() {
		md5sum, md5err = artifact.MD5Sum(p.f.Fs, plan.ROMArchive)
	})
	if md5err != nil {
		return md5err
	}
	size, err := artifact.Size(p.f.Fs, plan.ROMArchive)
	if err != nil {
		return err
	}

	links, err := uploadCmd.NewDispatcher(p.f).Dispatch(ctx, plan)
	if err != nil {
		p.send(ctx, cfg.ErrorChat(), p.msg.Failure())
		return err
	}

	label := "Initial Install Zip"
	if plan.Auxiliary == artifact.AuxRecoveryImage {
		label = "Recovery"
	}
	summary := p.msg.Success(ui.FormatBytes(size), md5sum, took, links, label, plan.Warnings)

	if p.statusID != 0 {
		p.edit(ctx, cfg.ChatID, p.statusID, summary)
		if err := p.f.Notifier().PinMessage(ctx, cfg.ChatID, p.statusID); err != nil {
			p.f.Logger.WithError(err).Warn("could not pin the summary message")
		}
	} else {
		p.send(ctx, cfg.ChatID, summary)
	}

	fmt.Println(ui.Success.Render(fmt.Sprintf("%s ROM uploaded: %s", ui.IconSuccess, links.ROM)))

	if p.opts.Web && links.ROM != "" {
		if err := browser.OpenURL(links.ROM); err != nil {
			p.f.Logger.WithError(err).Warn("could not open browser")
		}
	}
	return nil
}

// poweroff shuts the machine down when configured, with a confirmation guard
// for interactive runs
func (p *pipeline) poweroff(ctx context.Context) error {
	if !p.f.Config.Poweroff {
		return nil
	}

	confirmed := p.f.SkipConfirm
	if err := io.Confirm(&confirmed, "Power off the machine now?"); err != nil {
		return err
	}
	if !confirmed {
		return nil
	}
	return p.f.Runner.Run(ctx, "sudo", "poweroff")
}

// sendLog posts the most useful log to the error chat: the build system's
// own failure summary when it wrote one, the full log otherwise.
func (p *pipeline) sendLog(ctx context.Context) {
	path := build.LogFile
	if ok, _ := afero.Exists(p.f.Fs, build.ErrorLog); ok {
		path = build.ErrorLog
	}
	if err := p.f.Notifier().SendDocument(ctx, p.f.Config.ErrorChat(), path); err != nil {
		p.f.Logger.WithError(err).Warn("could not upload the build log")
	}
}

// send posts a chat message, treating notification failure as a warning so
// the pipeline never dies on a flaky bot API.
func (p *pipeline) send(ctx context.Context, chatID, text string) int64 {
	id, err := p.f.Notifier().SendMessage(ctx, chatID, text)
	if err != nil {
		p.f.Logger.WithError(err).Warn("could not post status message")
		return 0
	}
	return id
}

func (p *pipeline) edit(ctx context.Context, chatID string, messageID int64, text string) {
	if messageID == 0 {
		return
	}
	if err := p.f.Notifier().EditMessage(ctx, chatID, messageID, text); err != nil {
		p.f.Logger.WithError(err).Warn("could not update status message")
	}
}
