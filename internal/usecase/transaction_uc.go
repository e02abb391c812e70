package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"memorial-platform/internal/domain"
	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/adapter"
	"memorial-platform/internal/domain/ports/repository"
	"memorial-platform/internal/infra/metrics"
)

// SubmitInput is a principal's payment claim as it arrives from the
// transport layer.
type SubmitInput struct {
	PrincipalID string
	Plan        model.PlanKey
	Amount      int64
	Currency    string
	Method      model.PaymentMethod
	ReferenceNo string
	ProofRef    string
}

// TransactionUseCase owns the payment-claim lifecycle: submission by a
// principal, review by an administrator, and the subscription grant that a
// completed review triggers.
type TransactionUseCase struct {
	txs      repository.TransactionRepository
	subs     repository.SubscriptionRepository
	txm      repository.TransactionManager // nil falls back to non-transactional grants
	notifier adapter.AdminNotifier         // nil disables notifications
	cache    PlanSetCache                  // nil disables invalidation
	currency string
	log      *zerolog.Logger
}

func NewTransactionUseCase(
	txs repository.TransactionRepository,
	subs repository.SubscriptionRepository,
	txm repository.TransactionManager,
	notifier adapter.AdminNotifier,
	cache PlanSetCache,
	defaultCurrency string,
	logger *zerolog.Logger,
) *TransactionUseCase {
	if defaultCurrency == "" {
		defaultCurrency = model.DefaultCurrency
	}
	ucLog := logger.With().Str("component", "TransactionUC").Logger()
	return &TransactionUseCase{
		txs:      txs,
		subs:     subs,
		txm:      txm,
		notifier: notifier,
		cache:    cache,
		currency: defaultCurrency,
		log:      &ucLog,
	}
}

// Submit validates and records a pending payment claim, then pings the
// administrators. Validation failures reject the request; nothing is
// persisted.
func (uc *TransactionUseCase) Submit(ctx context.Context, in SubmitInput) (*model.Transaction, error) {
	currency := in.Currency
	if currency == "" {
		currency = uc.currency
	}
	t, err := model.NewTransaction(ulid.Make().String(), in.PrincipalID, in.Plan,
		in.Amount, currency, in.Method, in.ReferenceNo, in.ProofRef)
	if err != nil {
		return nil, err
	}
	if err := uc.txs.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	metrics.IncTransaction("submitted", t.Method)

	if uc.notifier != nil {
		if err := uc.notifier.TransactionSubmitted(ctx, t); err != nil {
			uc.log.Warn().Err(err).Str("transaction_id", t.ID).Msg("admin notification failed")
		}
	}
	return t, nil
}

// Review applies an administrator's verdict. Only pending claims may move,
// only into completed or failed; anything else is rejected. A completed
// claim grants (or confirms) the purchased plan in the same database
// transaction.
func (uc *TransactionUseCase) Review(ctx context.Context, id string, verdict model.TransactionStatus) (*model.Transaction, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !verdict.Terminal() {
		return nil, domain.ErrInvalidTransition
	}

	var reviewed *model.Transaction
	apply := func(ctx context.Context, tx repository.Tx) error {
		t, err := uc.txs.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !t.CanTransitionTo(verdict) {
			return domain.ErrInvalidTransition
		}
		if err := uc.txs.UpdateStatusFromPending(ctx, tx, id, verdict); err != nil {
			return err
		}
		now := time.Now()
		t.Status = verdict
		t.UpdatedAt = now

		if verdict == model.TransactionStatusCompleted {
			if err := uc.grant(ctx, tx, t); err != nil {
				return err
			}
		}
		reviewed = t
		metrics.IncTransaction(string(verdict), t.Method)
		metrics.ObserveReviewLatency(now.Sub(t.CreatedAt).Seconds())
		return nil
	}

	var err error
	if uc.txm != nil {
		err = uc.txm.WithTx(ctx, pgx.TxOptions{}, apply)
	} else {
		err = apply(ctx, nil)
	}
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, reviewed.PrincipalID)
	}
	return reviewed, nil
}

// grant makes sure the principal holds the purchased plan: an existing
// active or trialing grant is enough, otherwise an open-ended active grant
// is created.
func (uc *TransactionUseCase) grant(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	existing, err := uc.subs.FindEntitlingByPrincipalAndPlan(ctx, tx, t.PrincipalID, t.PlanKey)
	if err == nil && existing != nil {
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	sub, err := model.NewSubscription(uuid.NewString(), t.PrincipalID, t.PlanKey, nil, false)
	if err != nil {
		return err
	}
	if err := uc.subs.Save(ctx, tx, sub); err != nil {
		return err
	}
	uc.log.Info().
		Str("principal_id", t.PrincipalID).
		Str("plan", string(t.PlanKey)).
		Str("transaction_id", t.ID).
		Msg("plan granted")
	return nil
}

func (uc *TransactionUseCase) Get(ctx context.Context, id string) (*model.Transaction, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.txs.FindByID(ctx, nil, id)
}

func (uc *TransactionUseCase) ListByPrincipal(ctx context.Context, principalID string) ([]*model.Transaction, error) {
	if principalID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.txs.ListByPrincipal(ctx, nil, principalID)
}

// ReviewQueue lists claims awaiting a verdict, oldest first, and refreshes
// the pending gauge as a side effect.
func (uc *TransactionUseCase) ReviewQueue(ctx context.Context, status model.TransactionStatus, limit int) ([]*model.Transaction, error) {
	if status == "" {
		status = model.TransactionStatusPending
	}
	out, err := uc.txs.ListByStatus(ctx, nil, status, limit)
	if err != nil {
		return nil, err
	}
	if status == model.TransactionStatusPending {
		if counts, err := uc.txs.CountByStatus(ctx, nil); err == nil {
			metrics.SetTransactionsPending(counts[model.TransactionStatusPending])
		}
	}
	return out, nil
}
