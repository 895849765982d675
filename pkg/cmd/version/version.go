package version

import (
	"fmt"

	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/spf13/cobra"
)

// Format renders the version string shown by --version and the version command
func Format(version string) string {
	return fmt.Sprintf("romci version %s", version)
}

func NewCmdVersion(f *factory.Factory) *cobra.Command {
	return &cobra.Command{
		Use:    "version",
		Hidden: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Format(f.Version))
		},
	}
}
