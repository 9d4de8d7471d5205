package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingAnalysisHooks struct {
	NoopAnalysisHooks
	stressStarts    int
	stressCompletes int
	lastDesign      string
	lastErr         error
}

func (h *recordingAnalysisHooks) OnStressStart(ctx context.Context, designID, loadCase string) {
	h.stressStarts++
	h.lastDesign = designID
}

func (h *recordingAnalysisHooks) OnStressComplete(ctx context.Context, designID, loadCase string, maxStressMPa float64, d time.Duration, err error) {
	h.stressCompletes++
	h.lastErr = err
}

type recordingStoreHooks struct {
	NoopStoreHooks
	gets int
}

func (h *recordingStoreHooks) OnStoreGet(ctx context.Context, id string, err error) {
	h.gets++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	ctx := context.Background()
	Analysis().OnStressStart(ctx, "d1", "test")
	Analysis().OnStressComplete(ctx, "d1", "test", 330.4, time.Second, nil)
	Store().OnStoreGet(ctx, "d1", nil)
}

func TestSetAnalysisHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingAnalysisHooks{}
	SetAnalysisHooks(h)

	ctx := context.Background()
	Analysis().OnStressStart(ctx, "d1", "burst")
	Analysis().OnStressComplete(ctx, "d1", "burst", 495.6, time.Millisecond, errors.New("boom"))

	if h.stressStarts != 1 || h.stressCompletes != 1 {
		t.Errorf("starts=%d completes=%d", h.stressStarts, h.stressCompletes)
	}
	if h.lastDesign != "d1" || h.lastErr == nil {
		t.Errorf("lastDesign=%q lastErr=%v", h.lastDesign, h.lastErr)
	}
}

func TestSetStoreHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingStoreHooks{}
	SetStoreHooks(h)
	Store().OnStoreGet(context.Background(), "d1", nil)
	if h.gets != 1 {
		t.Errorf("gets = %d", h.gets)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingAnalysisHooks{}
	SetAnalysisHooks(h)
	SetAnalysisHooks(nil)

	Analysis().OnStressStart(context.Background(), "d1", "test")
	if h.stressStarts != 1 {
		t.Error("nil registration should not replace hooks")
	}
}

func TestReset(t *testing.T) {
	h := &recordingAnalysisHooks{}
	SetAnalysisHooks(h)
	Reset()

	Analysis().OnStressStart(context.Background(), "d1", "test")
	if h.stressStarts != 0 {
		t.Error("Reset should restore no-op hooks")
	}
}
