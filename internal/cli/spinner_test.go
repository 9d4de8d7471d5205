package cli

import (
	"context"
	"testing"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "working")
	s.Start()
	s.Stop()

	if s.Cancelled() {
		t.Error("explicit Stop should not report cancellation")
	}

	// A second Stop must not panic or block.
	s.Stop()
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "working")
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("context cancellation should be reported")
	}
}
