package io

import (
	"errors"
	"strings"
	"testing"
)

func TestPendingUpdate(t *testing.T) {
	t.Parallel()

	t.Run("completion output replaces the status line", func(t *testing.T) {
		t.Parallel()

		p := NewPendingCommand(nil, "working")
		model, _ := p.Update(PendingOutput("all done"))

		got := model.(Pending)
		if got.Err != nil {
			t.Errorf("unexpected error: %v", got.Err)
		}
		if got.View() != "all done\n" {
			t.Errorf("View() = %q", got.View())
		}
	})

	t.Run("an error is kept on the model", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("upload rejected")
		p := NewPendingCommand(nil, "working")
		model, _ := p.Update(boom)

		got := model.(Pending)
		if !errors.Is(got.Err, boom) {
			t.Errorf("Err = %v, want %v", got.Err, boom)
		}
		if !strings.Contains(got.View(), "upload rejected") {
			t.Errorf("View() = %q", got.View())
		}
	})

	t.Run("spinner keeps running until the action reports", func(t *testing.T) {
		t.Parallel()

		p := NewPendingCommand(nil, "working")
		if !strings.Contains(p.View(), "working") {
			t.Errorf("View() = %q", p.View())
		}
		if p.Err != nil {
			t.Errorf("unexpected error: %v", p.Err)
		}
	})
}
