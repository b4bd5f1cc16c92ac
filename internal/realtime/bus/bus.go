package bus

import (
	"context"

	"github.com/talekeep/talekeep-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	// StartForwarder subscribes and invokes onEvent for every published
	// event until ctx is cancelled.
	StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error
	Close() error
}

// NewNopBus returns a bus that drops everything; used when no Redis is
// configured and in tests.
func NewNopBus() Bus { return nopBus{} }

type nopBus struct{}

func (nopBus) Publish(context.Context, realtime.Event) error { return nil }
func (nopBus) StartForwarder(context.Context, func(ev realtime.Event)) error {
	return nil
}
func (nopBus) Close() error { return nil }
