package repository

import (
	"context"

	"memorial-platform/internal/domain/model"
)

// TransactionRepository is the port for payment-claim persistence.
type TransactionRepository interface {
	Save(ctx context.Context, tx Tx, t *model.Transaction) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Transaction, error)
	ListByPrincipal(ctx context.Context, tx Tx, principalID string) ([]*model.Transaction, error)
	ListByStatus(ctx context.Context, tx Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error)

	// UpdateStatusFromPending flips a pending transaction into a terminal
	// status. It must be conditional on the stored status still being
	// pending so two concurrent reviews cannot both apply; returns
	// domain.ErrInvalidTransition when the row exists but is no longer
	// pending, domain.ErrNotFound when it does not exist.
	UpdateStatusFromPending(ctx context.Context, tx Tx, id string, status model.TransactionStatus) error

	// CountByStatus feeds the review-queue gauge.
	CountByStatus(ctx context.Context, tx Tx) (map[model.TransactionStatus]int, error)
}
