package configure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/romci/cli/internal/config"
	cliErrors "github.com/romci/cli/internal/errors"
	"github.com/romci/cli/internal/io"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func NewCmdConfigure(f *factory.Factory) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "configure",
		Aliases: []string{"config"},
		Args:    cobra.NoArgs,
		Short:   "Create or update the build configuration",
		Long:    "Interactively create the config file the other commands read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := f.ConfigPath
			if path == "" {
				path = config.DefaultFile
			}

			if exists, _ := afero.Exists(f.Fs, path); exists && !force {
				overwrite := f.SkipConfirm
				if err := io.Confirm(&overwrite, fmt.Sprintf("%s already exists. Overwrite it?", path)); err != nil {
					return err
				}
				if !overwrite {
					return cliErrors.NewUserAbortedError(nil, "configuration unchanged")
				}
			}

			return ConfigureRun(f, path)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file without asking")
	return cmd
}

// ConfigureRun walks through the configuration form and writes the result
// to path. Existing values prefill the form so reconfiguring only what
// changed is cheap.
func ConfigureRun(f *factory.Factory, path string) error {
	cfg := &config.Config{}
	if f.Config != nil {
		*cfg = *f.Config
	}
	devices := strings.Join(cfg.InstallZipDevices, "|")

	nonEmpty := func(s string) error {
		if len(s) == 0 {
			return errors.New("value cannot be empty")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Device codename: ").Value(&cfg.Device).Validate(nonEmpty).Inline(true).Prompt(""),
			huh.NewInput().Title("Build variant: ").Value(&cfg.Variant).Validate(nonEmpty).Inline(true).Prompt(""),
		),
		huh.NewGroup(
			huh.NewInput().Title("Telegram bot token: ").Value(&cfg.BotToken).EchoMode(huh.EchoModePassword).Validate(nonEmpty).Inline(true).Prompt(""),
			huh.NewInput().Title("Chat ID: ").Value(&cfg.ChatID).Validate(nonEmpty).Inline(true).Prompt(""),
			huh.NewInput().Title("Error chat ID (optional): ").Value(&cfg.ErrorChatID).Inline(true).Prompt(""),
		),
		huh.NewGroup(
			huh.NewInput().Title("rclone remote (optional): ").Value(&cfg.RcloneRemote).Inline(true).Prompt(""),
			huh.NewInput().Title("rclone folder (optional): ").Value(&cfg.RcloneFolder).Inline(true).Prompt(""),
			huh.NewInput().Title("Install zip devices, pipe separated (optional): ").Value(&devices).Inline(true).Prompt(""),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Official build?").Value(&cfg.Official),
			huh.NewConfirm().Title("Power off after a successful run?").Value(&cfg.Poweroff),
		),
	).WithTheme(huh.ThemeBase16())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.InstallZipDevices = nil
	for _, d := range strings.Split(devices, "|") {
		if d = strings.TrimSpace(d); d != "" {
			cfg.InstallZipDevices = append(cfg.InstallZipDevices, d)
		}
	}

	if err := config.Save(f.Fs, path, cfg); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
