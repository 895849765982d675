// Package config loads the build configuration for the romci CLI.
//
// Configuration lives in a key/value env file (romci.env by default) in the
// source tree root. Environment variables with matching names override file
// values. The parsed record is passed by value into the rest of the pipeline,
// nothing reads configuration ambiently.
package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/romci/cli/internal/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// DefaultFile is the config file read when --config is not given
const DefaultFile = "romci.env"

// Keys recognized in the env file
const (
	KeyDevice            = "DEVICE"
	KeyVariant           = "VARIANT"
	KeyBotToken          = "BOT_TOKEN"
	KeyChatID            = "CHAT_ID"
	KeyErrorChatID       = "ERROR_CHAT_ID"
	KeyRcloneRemote      = "RCLONE_REMOTE"
	KeyRcloneFolder      = "RCLONE_FOLDER"
	KeyInstallZipDevices = "INITIAL_INSTALL_ZIP_DEVICES"
	KeyOfficial          = "OFFICIAL_FLAG"
	KeyPoweroff          = "POWEROFF"
)

// Config is the typed configuration record for one build run
type Config struct {
	// Device is the device codename being built
	Device string
	// Variant is the build variant passed to the build tool (eg. userdebug)
	Variant string

	// BotToken authenticates against the Telegram Bot API
	BotToken string
	// ChatID is the chat receiving build status messages
	ChatID string
	// ErrorChatID optionally redirects failure reports to a separate chat
	ErrorChatID string

	// RcloneRemote and RcloneFolder locate the cloud storage target for the ROM archive
	RcloneRemote string
	RcloneFolder string

	// InstallZipDevices is the device allowlist for generated install zips,
	// parsed from a pipe-delimited value. Empty means only Device itself.
	InstallZipDevices []string

	// Official marks the build as an official release in notifications
	Official bool
	// Poweroff shuts the machine down after a successful run
	Poweroff bool
}

// Load reads the env file at path and applies environment variable overrides
func Load(fs afero.Fs, path string) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if exists, _ := afero.Exists(fs, path); !exists {
			return nil, errors.NewConfigurationError(nil,
				fmt.Sprintf("config file %q not found", path),
				"Run 'romci configure' to create one")
		}
		return nil, errors.NewConfigurationError(err, fmt.Sprintf("reading %q", path))
	}

	return &Config{
		Device:            v.GetString(KeyDevice),
		Variant:           v.GetString(KeyVariant),
		BotToken:          v.GetString(KeyBotToken),
		ChatID:            v.GetString(KeyChatID),
		ErrorChatID:       v.GetString(KeyErrorChatID),
		RcloneRemote:      v.GetString(KeyRcloneRemote),
		RcloneFolder:      v.GetString(KeyRcloneFolder),
		InstallZipDevices: splitDevices(v.GetString(KeyInstallZipDevices)),
		Official:          v.GetBool(KeyOfficial),
		Poweroff:          v.GetBool(KeyPoweroff),
	}, nil
}

// Validate checks that the keys every pipeline stage depends on are present
func (c *Config) Validate() error {
	missing := []string{}
	for key, value := range map[string]string{
		KeyDevice:   c.Device,
		KeyVariant:  c.Variant,
		KeyBotToken: c.BotToken,
		KeyChatID:   c.ChatID,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.NewConfigurationError(nil,
			fmt.Sprintf("missing required config keys: %s", strings.Join(missing, ", ")),
			"Run 'romci configure' to fill them in")
	}
	return nil
}

// DeviceAllowlist returns the device codenames permitted to receive a
// generated install zip. When no allowlist is configured it falls back to the
// configured device codename.
func (c *Config) DeviceAllowlist() []string {
	if len(c.InstallZipDevices) == 0 {
		return []string{c.Device}
	}
	return c.InstallZipDevices
}

// DeviceAllowed reports whether codename may receive a generated install zip
func (c *Config) DeviceAllowed(codename string) bool {
	return slices.Contains(c.DeviceAllowlist(), codename)
}

// BoardRequirement is the value written into the install zip's
// android-info.txt board constraint. It preserves the raw pipe-delimited
// allowlist so fastboot accepts any listed board.
func (c *Config) BoardRequirement() string {
	if len(c.InstallZipDevices) == 0 {
		return c.Device
	}
	return strings.Join(c.InstallZipDevices, "|")
}

// ErrorChat returns the chat that receives failure reports
func (c *Config) ErrorChat() string {
	if c.ErrorChatID != "" {
		return c.ErrorChatID
	}
	return c.ChatID
}

// Type describes the build for notifications
func (c *Config) Type() string {
	if c.Official {
		return "Official"
	}
	return "Unofficial"
}

func splitDevices(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, "|")
	devices := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			devices = append(devices, p)
		}
	}
	return devices
}
