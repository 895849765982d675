package build_test

import (
	"testing"

	"github.com/romci/cli/internal/build"
	"github.com/spf13/afero"
)

func TestProgress(t *testing.T) {
	t.Parallel()

	testcases := map[string]struct {
		log  string
		want string
	}{
		"latest ninja marker wins": {
			log: "[ 10% 100/1000] compiling foo.cpp ninja\n" +
				"[ 42% 420/1000] compiling bar.cpp ninja\n",
			want: "42% (420/1000)",
		},
		"lines without markers are skipped": {
			log: "[ 33% 330/1000] linking libbase.so ninja\n" +
				"warning: something unrelated\n",
			want: "33% (330/1000)",
		},
		"no markers yet": {
			log:  "including vendor/derp/config.mk\n",
			want: build.Initializing,
		},
		"empty log": {
			log:  "",
			want: build.Initializing,
		},
	}

	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "build.log", []byte(tc.log), 0o644); err != nil {
				t.Fatal(err)
			}

			if got := build.Progress(fs, "build.log"); got != tc.want {
				t.Errorf("Progress = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("missing log reports initializing", func(t *testing.T) {
		t.Parallel()

		if got := build.Progress(afero.NewMemMapFs(), "build.log"); got != build.Initializing {
			t.Errorf("Progress = %q, want %q", got, build.Initializing)
		}
	})
}

func TestCounts(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	log := "[ 10% 100/1000] compiling foo.cpp ninja\n" +
		"[ 42% 420/1000] compiling bar.cpp ninja\n"
	if err := afero.WriteFile(fs, "build.log", []byte(log), 0o644); err != nil {
		t.Fatal(err)
	}

	completed, total, ok := build.Counts(fs, "build.log")
	if !ok {
		t.Fatal("expected counts from a log with markers")
	}
	if completed != 420 || total != 1000 {
		t.Errorf("Counts = %d/%d, want 420/1000", completed, total)
	}

	if _, _, ok := build.Counts(afero.NewMemMapFs(), "build.log"); ok {
		t.Error("expected no counts for a missing log")
	}
}
