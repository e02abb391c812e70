package adapter

import (
	"context"

	"memorial-platform/internal/domain/model"
)

// AdminNotifier pushes review-queue events to the platform administrators.
// Implementations must be safe for concurrent use; delivery is best effort
// and never blocks the submitting request beyond its context.
type AdminNotifier interface {
	TransactionSubmitted(ctx context.Context, t *model.Transaction) error
}
