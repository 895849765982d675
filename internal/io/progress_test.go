package io

import "testing"

func TestProgressBar(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		completed, total, width int
		want                    string
	}{
		"zero width":    {5, 10, 0, "[]"},
		"unknown total": {5, 0, 4, "[░░░░]"},
		"half done":     {5, 10, 4, "[██░░]"},
		"complete":      {10, 10, 4, "[████]"},
		"over total":    {15, 10, 4, "[████]"},
		"negative":      {-3, 10, 4, "[░░░░]"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := ProgressBar(tc.completed, tc.total, tc.width); got != tc.want {
				t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tc.completed, tc.total, tc.width, got, tc.want)
			}
		})
	}
}

func TestProgressLine(t *testing.T) {
	t.Parallel()

	got := ProgressLine("ninja", 1460, 2920, 10)
	want := "ninja [█████░░░░░]  50% 1460/2920"
	if got != want {
		t.Errorf("ProgressLine = %q, want %q", got, want)
	}

	if got := ProgressLine("ninja", 0, 0, 10); got != "ninja [no actions]" {
		t.Errorf("ProgressLine with zero total = %q", got)
	}
}
