// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about analysis execution and design store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnStressStart(ctx, designID, loadCase)
//	// ... compute ...
//	observability.Analysis().OnStressComplete(ctx, designID, loadCase, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from the analysis engine.
type AnalysisHooks interface {
	// Stress analysis events
	OnStressStart(ctx context.Context, designID, loadCase string)
	OnStressComplete(ctx context.Context, designID, loadCase string, maxStressMPa float64, duration time.Duration, err error)

	// Reliability events
	OnReliabilityStart(ctx context.Context, designID string, samples int)
	OnReliabilityComplete(ctx context.Context, designID string, samples int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from design store operations.
type StoreHooks interface {
	// OnStoreGet records a design read.
	OnStoreGet(ctx context.Context, id string, err error)

	// OnStorePut records a design write.
	OnStorePut(ctx context.Context, id string, err error)

	// OnStoreDelete records a design removal.
	OnStoreDelete(ctx context.Context, id string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnStressStart(context.Context, string, string) {}
func (NoopAnalysisHooks) OnStressComplete(context.Context, string, string, float64, time.Duration, error) {
}
func (NoopAnalysisHooks) OnReliabilityStart(context.Context, string, int) {}
func (NoopAnalysisHooks) OnReliabilityComplete(context.Context, string, int, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreGet(context.Context, string, error)    {}
func (NoopStoreHooks) OnStorePut(context.Context, string, error)    {}
func (NoopStoreHooks) OnStoreDelete(context.Context, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any analyses run.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	storeHooks = NoopStoreHooks{}
}
