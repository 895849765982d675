// Package resolver decides which files in a build output directory make up
// the distributable artifact set.
//
// Resolution is a pure decision function over a filesystem snapshot: it only
// reads, never writes, and the same directory contents always produce the
// same plan. The install zip itself is synthesized later by the bundle
// package, only when the plan calls for it.
package resolver

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/romci/cli/internal/artifact"
	"github.com/romci/cli/internal/errors"
	"github.com/spf13/afero"
)

// Image filenames looked up in the output directory
const (
	RecoveryImage   = "recovery.img"
	BootImage       = "boot.img"
	VendorBootImage = "vendor_boot.img"
	DtboImage       = "dtbo.img"
)

// BundleImages are the components required to synthesize an install zip
var BundleImages = []string{BootImage, VendorBootImage, DtboImage}

// Options carries the configuration the resolver needs. It is passed by
// value so resolution stays independent of ambient state.
type Options struct {
	// Device is the codename the build was made for
	Device string

	// Allowlist is the set of device codenames permitted to receive a
	// generated install zip. Empty means only Device itself.
	Allowlist []string

	// SourceRoot optionally points at the source tree, whose vendor/ota
	// directory is searched for an OTA descriptor in addition to the
	// output directory's own.
	SourceRoot string
}

func (o Options) deviceAllowed() bool {
	if len(o.Allowlist) == 0 {
		return true
	}
	return slices.Contains(o.Allowlist, o.Device)
}

// Resolve inspects dir and produces the artifact plan for the build.
//
// The ROM archive is located first; its absence is fatal. A recovery image
// takes precedence over a generated install zip when both would be possible.
// Otherwise an install zip is planned when the device is allowlisted and all
// bundle images are present; anything less degrades to no auxiliary artifact
// with a warning on the plan. The OTA descriptor lookup is independent of
// the auxiliary decision.
func Resolve(fsys afero.Fs, dir string, opts Options) (*artifact.Plan, error) {
	rom, err := findROMArchive(fsys, dir, opts.Device)
	if err != nil {
		return nil, err
	}

	plan := &artifact.Plan{
		OutputDir:  dir,
		ROMArchive: rom,
	}

	resolveAuxiliary(fsys, dir, opts, plan)
	plan.OTADescriptor = findOTADescriptor(fsys, dir, opts, plan.ROMName())

	return plan, nil
}

func resolveAuxiliary(fsys afero.Fs, dir string, opts Options, plan *artifact.Plan) {
	recovery := filepath.Join(dir, RecoveryImage)
	if exists(fsys, recovery) {
		plan.Auxiliary = artifact.AuxRecoveryImage
		plan.AuxiliaryPath = recovery
		return
	}

	if !opts.deviceAllowed() {
		plan.Auxiliary = artifact.AuxNone
		plan.Warn(fmt.Sprintf("device %q is not allowlisted for an install zip", opts.Device))
		return
	}

	missing := []string{}
	for _, img := range BundleImages {
		if !exists(fsys, filepath.Join(dir, img)) {
			missing = append(missing, img)
		}
	}
	if len(missing) > 0 {
		plan.Auxiliary = artifact.AuxNone
		plan.Warn(fmt.Sprintf("install zip skipped, missing %s", strings.Join(missing, ", ")))
		return
	}

	plan.Auxiliary = artifact.AuxInstallZip
}

// findROMArchive locates the primary ROM package: a zip named after the
// device, preferring names without "ota" or "target_files", largest first.
func findROMArchive(fsys afero.Fs, dir, device string) (string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return "", errors.NewMissingArtifactError(
			fmt.Sprintf("cannot read output directory %q: %v", dir, err))
	}

	type candidate struct {
		name string
		size int64
	}

	var primary, fallback []candidate
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, ".zip") || !strings.Contains(name, device) {
			continue
		}

		c := candidate{name: name, size: info.Size()}
		lower := strings.ToLower(name)
		if strings.Contains(lower, "ota") || strings.Contains(lower, "target_files") {
			fallback = append(fallback, c)
		} else {
			primary = append(primary, c)
		}
	}

	candidates := primary
	if len(candidates) == 0 {
		candidates = fallback
	}
	if len(candidates) == 0 {
		return "", errors.NewMissingArtifactError(
			fmt.Sprintf("no ROM archive matching device %q in %s", device, dir),
			"Check that the build completed and produced a flashable zip")
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].size > candidates[j].size })
	return filepath.Join(dir, candidates[0].name), nil
}

// findOTADescriptor checks vendor/ota for a JSON file matching the ROM
// archive's base name, falling back to the device codename. Absence is not
// an error, the descriptor is simply omitted.
func findOTADescriptor(fsys afero.Fs, dir string, opts Options, romName string) string {
	base := strings.TrimSuffix(romName, ".zip")

	roots := []string{dir}
	if opts.SourceRoot != "" {
		roots = append(roots, opts.SourceRoot)
	}

	for _, root := range roots {
		for _, name := range []string{base + ".json", opts.Device + ".json"} {
			path := filepath.Join(root, "vendor", "ota", name)
			if exists(fsys, path) {
				return path
			}
		}
	}
	return ""
}

func exists(fsys afero.Fs, path string) bool {
	ok, err := afero.Exists(fsys, path)
	return err == nil && ok
}
