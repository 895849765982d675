package factory

import (
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/romci/cli/internal/config"
	"github.com/romci/cli/internal/shell"
	"github.com/romci/cli/internal/telegram"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Factory carries the shared dependencies every command pulls from. Commands
// never construct their own filesystem, runner or logger so tests can swap
// all of them out at once.
type Factory struct {
	Config *config.Config
	// ConfigError records why loading failed. Commands that need configuration
	// surface it through validation before running.
	ConfigError error
	// ConfigPath is the file Config was loaded from and configure writes to
	ConfigPath string

	Fs     afero.Fs
	Runner shell.Runner
	Logger *logrus.Logger

	// Telegram overrides the notifier client, used in tests
	Telegram *telegram.Client

	// GitRepository is the manifest checkout at the source root, nil when the
	// working directory is not a git repository
	GitRepository *git.Repository

	Version    string
	SourceRoot string

	// Quiet and SkipConfirm mirror the global --quiet and --yes flags
	Quiet       bool
	SkipConfirm bool
}

// New builds the default factory for the current working directory. A missing
// or invalid config file is not fatal here; commands that need configuration
// validate before running.
func New(version string) *Factory {
	fs := afero.NewOsFs()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	cfg, cfgErr := config.Load(fs, config.DefaultFile)
	repo, _ := git.PlainOpen(root)

	return &Factory{
		Config:        cfg,
		ConfigError:   cfgErr,
		ConfigPath:    config.DefaultFile,
		Fs:            fs,
		Runner:        shell.New(logger),
		Logger:        logger,
		GitRepository: repo,
		Version:       version,
		SourceRoot:    root,
	}
}

// Notifier returns a Telegram client for the configured bot token
func (f *Factory) Notifier() *telegram.Client {
	if f.Telegram != nil {
		return f.Telegram
	}
	return telegram.New(f.Config.BotToken)
}
