// Package artifact defines the distributable artifact set produced by a build.
package artifact

import "path/filepath"

// Auxiliary identifies which artifact, if any, accompanies the ROM archive.
// Exactly one auxiliary is selected per build, never both.
type Auxiliary int

const (
	// AuxNone means only the ROM archive is distributed
	AuxNone Auxiliary = iota
	// AuxRecoveryImage means the build produced a bootable recovery image
	AuxRecoveryImage
	// AuxInstallZip means a flashable install package is synthesized from
	// the boot, vendor_boot and dtbo images
	AuxInstallZip
)

func (a Auxiliary) String() string {
	switch a {
	case AuxRecoveryImage:
		return "recovery image"
	case AuxInstallZip:
		return "initial install zip"
	default:
		return "none"
	}
}

// Plan is the decision record for one build's distribution. It is constructed
// once after a successful build, consumed by the upload dispatcher and the
// notifier, then discarded.
type Plan struct {
	// OutputDir is the build output directory the plan was resolved from
	OutputDir string

	// ROMArchive is the path of the primary ROM package
	ROMArchive string

	// Auxiliary selects the artifact accompanying the ROM archive
	Auxiliary Auxiliary

	// AuxiliaryPath is the file backing Auxiliary. For AuxRecoveryImage it is
	// set during resolution; for AuxInstallZip it is filled in after the
	// bundle is synthesized.
	AuxiliaryPath string

	// OTADescriptor is the path of the matching OTA metadata file, empty when
	// none exists. Its absence is not an error.
	OTADescriptor string

	// Warnings records non-fatal degradations encountered while resolving
	Warnings []string
}

// ROMName is the base filename of the ROM archive
func (p *Plan) ROMName() string {
	return filepath.Base(p.ROMArchive)
}

// Warn appends a non-fatal warning to the plan
func (p *Plan) Warn(msg string) {
	p.Warnings = append(p.Warnings, msg)
}
