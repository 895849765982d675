package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Save writes the configuration record to an env file at path. Only set keys
// are written so a saved file round-trips through Load.
func Save(fs afero.Fs, path string, c *Config) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	var b strings.Builder
	b.WriteString("# romci build configuration\n")

	writeKey := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
		}
	}

	writeKey(KeyDevice, c.Device)
	writeKey(KeyVariant, c.Variant)
	writeKey(KeyBotToken, c.BotToken)
	writeKey(KeyChatID, c.ChatID)
	writeKey(KeyErrorChatID, c.ErrorChatID)
	writeKey(KeyRcloneRemote, c.RcloneRemote)
	writeKey(KeyRcloneFolder, c.RcloneFolder)
	writeKey(KeyInstallZipDevices, strings.Join(c.InstallZipDevices, "|"))
	if c.Official {
		writeKey(KeyOfficial, "true")
	}
	if c.Poweroff {
		writeKey(KeyPoweroff, "true")
	}

	return afero.WriteFile(fs, path, []byte(b.String()), 0o600)
}
