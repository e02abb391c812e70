package notify

import (
	"context"

	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/adapter"
)

var _ adapter.AdminNotifier = (*NoopNotifier)(nil)

// NoopNotifier is used in dev mode and wherever no bot token is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (*NoopNotifier) TransactionSubmitted(ctx context.Context, t *model.Transaction) error {
	return nil
}
