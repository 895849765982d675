// Package bundle synthesizes the flashable initial-install package for
// devices without a prebuilt recovery image.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/romci/cli/internal/artifact"
	"github.com/romci/cli/internal/artifact/resolver"
	"github.com/romci/cli/internal/errors"
	"github.com/spf13/afero"
)

// Suffix is appended to the ROM archive's base name to form the bundle name
const Suffix = "-initial-install.zip"

// fastbootScript is the fixed flash sequence shipped inside every bundle
const fastbootScript = "version 1\nflash boot\nflash vendor_boot\nflash dtbo\nreboot bootloader\n"

// Create builds the install zip next to the ROM archive, bundling the boot,
// vendor_boot and dtbo images with the android-info.txt board constraint and
// the fastboot flash script. boardRequire is written verbatim, so a
// pipe-delimited allowlist lets fastboot accept any listed board.
//
// Image presence is re-verified here: the plan was resolved from an earlier
// filesystem snapshot and the directory may have changed since.
func Create(fs afero.Fs, plan *artifact.Plan, boardRequire string) (string, error) {
	missing := []string{}
	for _, img := range resolver.BundleImages {
		if ok, _ := afero.Exists(fs, filepath.Join(plan.OutputDir, img)); !ok {
			missing = append(missing, img)
		}
	}
	if len(missing) > 0 {
		return "", errors.NewValidationError(nil,
			fmt.Sprintf("cannot bundle install zip, missing %s", strings.Join(missing, ", ")))
	}

	name := strings.TrimSuffix(plan.ROMArchive, ".zip") + Suffix
	out, err := fs.Create(name)
	if err != nil {
		return "", err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, img := range resolver.BundleImages {
		if err := addFile(zw, fs, filepath.Join(plan.OutputDir, img), img); err != nil {
			zw.Close()
			return "", err
		}
	}

	if err := addLiteral(zw, "android-info.txt", fmt.Sprintf("require board=%s\n", boardRequire)); err != nil {
		zw.Close()
		return "", err
	}
	if err := addLiteral(zw, "fastboot-info.txt", fastbootScript); err != nil {
		zw.Close()
		return "", err
	}

	if err := zw.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func addFile(zw *zip.Writer, fs afero.Fs, path, name string) error {
	src, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func addLiteral(zw *zip.Writer, name, content string) error {
	dst, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(dst, content)
	return err
}
