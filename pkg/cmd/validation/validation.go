// Package validation provides the shared configuration gate commands install
// as their PersistentPreRunE.
package validation

import (
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/spf13/cobra"
)

// CheckValidConfiguration returns a PreRunE that refuses to run a command
// until the config file loads and carries the required keys.
func CheckValidConfiguration(f *factory.Factory) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if f.ConfigError != nil {
			return f.ConfigError
		}
		return f.Config.Validate()
	}
}
