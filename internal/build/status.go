package build

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// successMarker is printed by the build system when compilation finishes
const successMarker = "build completed successfully"

// Succeeded decides whether a build run actually produced a ROM. The build
// log is authoritative, but some build systems swallow the success line when
// output is teed, so a flashable zip in the output directory also counts.
func Succeeded(fs afero.Fs, logPath, outDir, device string, log *logrus.Logger) bool {
	content, err := afero.ReadFile(fs, logPath)
	if err == nil && strings.Contains(string(content), successMarker) {
		return true
	}

	if hasDeviceZip(fs, outDir, device) {
		if log != nil {
			log.Warn("success marker not found in log, but a ROM zip exists; assuming success")
		}
		return true
	}
	return false
}

func hasDeviceZip(fs afero.Fs, dir, device string) bool {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return false
	}
	for _, info := range infos {
		name := info.Name()
		if !info.IsDir() && strings.Contains(name, device) && strings.HasSuffix(name, ".zip") {
			return true
		}
	}
	return false
}
