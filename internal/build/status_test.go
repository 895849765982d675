package build_test

import (
	"testing"

	"github.com/romci/cli/internal/build"
	"github.com/spf13/afero"
)

func TestSucceeded(t *testing.T) {
	t.Parallel()

	const outDir = "out/target/product/zircon"

	testcases := map[string]struct {
		files map[string]string
		want  bool
	}{
		"log marker present": {
			files: map[string]string{
				"build.log": "#### build completed successfully (10:12 (hh:mm)) ####",
			},
			want: true,
		},
		"marker missing but zip exists": {
			files: map[string]string{
				"build.log":                        "ninja: build stopped",
				outDir + "/rom-zircon-signed.zip": "rom",
			},
			want: true,
		},
		"marker missing and no zip": {
			files: map[string]string{
				"build.log": "ninja: build stopped: subcommand failed",
			},
			want: false,
		},
		"no log and no output": {
			files: map[string]string{},
			want:  false,
		},
		"zip for another device does not count": {
			files: map[string]string{
				"build.log":                       "ninja: build stopped",
				outDir + "/rom-corot-signed.zip": "rom",
			},
			want: false,
		},
	}

	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			for path, content := range tc.files {
				if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			if got := build.Succeeded(fs, "build.log", outDir, "zircon", nil); got != tc.want {
				t.Errorf("Succeeded = %v, want %v", got, tc.want)
			}
		})
	}
}
