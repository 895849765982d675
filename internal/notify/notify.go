// Package notify renders the HTML status messages posted to the build chat.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/romci/cli/internal/upload"
)

// Build carries the static facts shown in every status message
type Build struct {
	ROM            string
	Device         string
	AndroidVersion string
	Type           string
	Jobs           int
	Directory      string
	Branch         string
	Commit         string
}

func field(name, value string) string {
	return fmt.Sprintf("<b>%s:</b> <code>%s</code>", name, value)
}

func (b Build) header(status string) []string {
	lines := []string{
		fmt.Sprintf("<b>Build Status: %s</b>", status),
		"",
		field("ROM", b.ROM),
		field("Device", b.Device),
	}
	if b.Branch != "" {
		lines = append(lines, field("Branch", b.Branch))
	}
	return lines
}

// Syncing is the message posted when a source sync starts
func (b Build) Syncing() string {
	lines := b.header("Syncing Sources")
	lines = append(lines,
		field("Jobs", fmt.Sprintf("%d Threads", b.Jobs)),
		field("Directory", b.Directory),
	)
	return strings.Join(lines, "\n")
}

// SyncDone replaces the sync message once the sync finishes
func (b Build) SyncDone(took time.Duration) string {
	lines := b.header("Sync Complete")
	lines = append(lines, field("Duration", FormatDuration(took)))
	return strings.Join(lines, "\n")
}

// SyncFailed replaces the sync message when both sync attempts fail
func (b Build) SyncFailed() string {
	return "<b>Build Status: Sync Failed</b>\n\nAttempting compilation regardless..."
}

// Compiling is the message posted when compilation starts and edited with
// progress while it runs
func (b Build) Compiling(progress string) string {
	lines := b.header("Compiling")
	lines = append(lines,
		field("Android", b.AndroidVersion),
		field("Type", b.Type),
		field("Jobs", fmt.Sprintf("%d Threads", b.Jobs)),
	)
	if b.Commit != "" {
		lines = append(lines, field("Commit", b.Commit))
	}
	lines = append(lines, field("Progress", progress))
	return strings.Join(lines, "\n")
}

// Success replaces the compile message after artifacts are uploaded
func (b Build) Success(size, md5 string, took time.Duration, links *upload.Links, auxiliaryLabel string, warnings []string) string {
	lines := b.header("Success")
	lines = append(lines,
		field("Android", b.AndroidVersion),
		field("Type", b.Type),
		field("Size", size),
		field("MD5", md5),
		field("Duration", FormatDuration(took)),
	)

	downloads := []string{fmt.Sprintf(`<a href="%s">ROM</a>`, links.ROM)}
	if links.Auxiliary != "" {
		downloads = append(downloads, fmt.Sprintf(`<a href="%s">%s</a>`, links.Auxiliary, auxiliaryLabel))
	}
	if links.OTA != "" {
		downloads = append(downloads, fmt.Sprintf(`<a href="%s">OTA JSON</a>`, links.OTA))
	}
	lines = append(lines, "", "<b>Download:</b> "+strings.Join(downloads, " | "))

	if len(warnings) > 0 {
		lines = append(lines, "", fmt.Sprintf("<i>Warning: %s</i>", strings.Join(warnings, "; ")))
	}
	return strings.Join(lines, "\n")
}

// Failure is sent to the error chat when the build does not succeed
func (b Build) Failure() string {
	return "<b>Build Status: Failed</b>\n\n<i>Check the attached log for details.</i>"
}

// FormatDuration renders a duration the way the chat messages phrase it:
// hours and minutes for long runs, minutes and seconds otherwise.
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	minutes, seconds := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60

	if hours > 0 {
		return fmt.Sprintf("%d hour(s) and %d minute(s)", hours, minutes)
	}
	return fmt.Sprintf("%d minute(s) and %d second(s)", minutes, seconds)
}
