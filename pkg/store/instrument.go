package store

import (
	"context"

	"github.com/proaptus/tanklab/pkg/observability"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// instrumented wraps a backend and emits observability events for each
// operation. Open wraps every backend it creates.
type instrumented struct {
	Store
}

var _ Store = instrumented{}

func (s instrumented) Get(ctx context.Context, id string) (*vessel.Design, error) {
	d, err := s.Store.Get(ctx, id)
	observability.Store().OnStoreGet(ctx, id, err)
	return d, err
}

func (s instrumented) Put(ctx context.Context, d *vessel.Design) (string, error) {
	id, err := s.Store.Put(ctx, d)
	observability.Store().OnStorePut(ctx, id, err)
	return id, err
}

func (s instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnStoreDelete(ctx, id, err)
	return err
}
