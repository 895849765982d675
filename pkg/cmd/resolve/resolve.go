package resolve

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss"
	"github.com/romci/cli/internal/artifact"
	"github.com/romci/cli/internal/artifact/resolver"
	"github.com/romci/cli/internal/build"
	"github.com/romci/cli/internal/ui"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/romci/cli/pkg/cmd/validation"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func NewCmdResolve(f *factory.Factory) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "resolve [flags]",
		Short:                 "Show which artifacts would be distributed",
		Args:                  cobra.NoArgs,
		Long: heredoc.Doc(`
			Inspects the build output directory and prints the artifact set a
			distribution run would pick: the ROM archive, the auxiliary
			artifact (recovery image or generated install zip) and the OTA
			descriptor. Nothing is created or uploaded.
		`),
		PersistentPreRunE: validation.CheckValidConfiguration(f),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = build.OutputDir(f.Config.Device)
			}

			plan, err := resolver.Resolve(afero.NewReadOnlyFs(f.Fs), dir, resolver.Options{
				Device:     f.Config.Device,
				Allowlist:  f.Config.InstallZipDevices,
				SourceRoot: f.SourceRoot,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(f, plan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory to inspect (default: the device product directory)")
	return cmd
}

func renderPlan(f *factory.Factory, plan *artifact.Plan) string {
	lines := []string{
		ui.Bold.Render("Artifact plan for " + plan.OutputDir),
		"",
		row("ROM archive", plan.ROMName()+sizeSuffix(f.Fs, plan.ROMArchive)),
	}

	switch plan.Auxiliary {
	case artifact.AuxRecoveryImage:
		lines = append(lines, row("Auxiliary", "recovery image ("+plan.AuxiliaryPath+")"))
	case artifact.AuxInstallZip:
		lines = append(lines, row("Auxiliary", "initial install zip (created on upload)"))
	default:
		lines = append(lines, row("Auxiliary", ui.Faint.Render("none")))
	}

	if plan.OTADescriptor != "" {
		lines = append(lines, row("OTA descriptor", plan.OTADescriptor))
	} else {
		lines = append(lines, row("OTA descriptor", ui.Faint.Render("absent")))
	}

	for _, w := range plan.Warnings {
		lines = append(lines, ui.Warning.Render(ui.IconWarning+" "+w))
	}

	return lipgloss.JoinVertical(lipgloss.Top, lines...)
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", ui.Bold.Render(label+":"), value)
}

func sizeSuffix(fs afero.Fs, path string) string {
	size, err := artifact.Size(fs, path)
	if err != nil {
		return ""
	}
	return " " + ui.Faint.Render("("+strings.TrimSpace(ui.FormatBytes(size))+")")
}
