package build

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Initializing is reported before ninja has written any progress line
const Initializing = "Initializing..."

var progressRe = regexp.MustCompile(`(\d+%) (\d+)/(\d+)`)

// Progress extracts the most recent ninja progress marker from the build
// log, formatted as "42% (420/1000)". Before the first marker appears, or
// when the log does not exist yet, it reports Initializing.
func Progress(fs afero.Fs, logPath string) string {
	m := lastMarker(fs, logPath)
	if m == nil {
		return Initializing
	}
	return m[1] + " (" + m[2] + "/" + m[3] + ")"
}

// Counts reports the most recent ninja action counts from the build log,
// for rendering a local progress bar. ok is false until the first marker
// appears.
func Counts(fs afero.Fs, logPath string) (completed, total int, ok bool) {
	m := lastMarker(fs, logPath)
	if m == nil {
		return 0, 0, false
	}

	completed, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(m[3])
	if err != nil {
		return 0, 0, false
	}
	return completed, total, true
}

func lastMarker(fs afero.Fs, logPath string) []string {
	content, err := afero.ReadFile(fs, logPath)
	if err != nil {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, "ninja") && !strings.Contains(line, "%") {
			continue
		}
		if m := progressRe.FindStringSubmatch(line); m != nil {
			return m
		}
	}
	return nil
}
