// Package source inspects the ROM source tree for metadata shown in build
// notifications.
package source

import (
	"path/filepath"
	"regexp"

	git "github.com/go-git/go-git/v5"
	"github.com/spf13/afero"
)

// Unknown is reported when a piece of metadata cannot be detected
const Unknown = "Unknown"

var androidVersionRe = regexp.MustCompile(`android-([0-9]+)`)

// Info describes the source tree a build runs from
type Info struct {
	// ROMName is the name of the ROM, taken from the source root directory
	ROMName string

	// AndroidVersion is the platform version declared in the repo manifest
	AndroidVersion string

	// Branch and Commit identify the manifest checkout when the source root
	// is a git repository. Both are empty otherwise.
	Branch string
	Commit string
}

// Detect gathers metadata from the source tree at root. Detection is best
// effort: fields that cannot be determined are set to Unknown or left empty,
// never an error. A build should not fail because a manifest is missing.
func Detect(fs afero.Fs, root string) Info {
	info := Info{
		ROMName:        romName(root),
		AndroidVersion: androidVersion(fs, root),
	}

	if repo, err := git.PlainOpen(root); err == nil {
		if head, err := repo.Head(); err == nil {
			info.Branch = head.Name().Short()
			info.Commit = head.Hash().String()[:8]
		}
	}

	return info
}

func romName(root string) string {
	name := filepath.Base(root)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return Unknown
	}
	return name
}

func androidVersion(fs afero.Fs, root string) string {
	manifest := filepath.Join(root, ".repo", "manifests", "default.xml")
	content, err := afero.ReadFile(fs, manifest)
	if err != nil {
		return Unknown
	}

	if m := androidVersionRe.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	return Unknown
}
