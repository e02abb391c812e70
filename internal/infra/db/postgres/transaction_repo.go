package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"memorial-platform/internal/domain"
	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

type transactionRepo struct{ pool *pgxpool.Pool }

func NewTransactionRepo(pool *pgxpool.Pool) *transactionRepo {
	return &transactionRepo{pool: pool}
}

const transactionColumns = `id, principal_id, plan_key, amount, currency, method, reference_no, proof_ref, status, created_at, updated_at`

func (r *transactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (` + transactionColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  principal_id=$2, plan_key=$3, amount=$4, currency=$5, method=$6,
  reference_no=$7, proof_ref=$8, status=$9, updated_at=$11;`

	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.PrincipalID, string(t.PlanKey), t.Amount, t.Currency,
		string(t.Method), t.ReferenceNo, t.ProofRef, string(t.Status),
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	t := &model.Transaction{}
	var planKey, method, status string
	if err := row.Scan(&t.ID, &t.PrincipalID, &planKey, &t.Amount, &t.Currency,
		&method, &t.ReferenceNo, &t.ProofRef, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	t.PlanKey = model.CanonicalPlanKey(model.PlanKey(planKey))
	t.Method = model.PaymentMethod(method)
	t.Status = model.TransactionStatus(status)
	return t, nil
}

func (r *transactionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q+";", id)
	if err != nil {
		return nil, err
	}
	return scanTransaction(row)
}

func (r *transactionRepo) ListByPrincipal(ctx context.Context, tx repository.Tx, principalID string) ([]*model.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE principal_id=$1 ORDER BY id DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	// ULID ids sort by submission time, oldest claim first in the queue.
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE status=$1 ORDER BY id ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*model.Transaction, error) {
	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

// UpdateStatusFromPending applies the verdict conditionally on the stored
// status, so two concurrent reviews cannot both win and a terminal row can
// never be flipped back.
func (r *transactionRepo) UpdateStatusFromPending(ctx context.Context, tx repository.Tx, id string, status model.TransactionStatus) error {
	const q = `UPDATE transactions SET status=$2, updated_at=NOW() WHERE id=$1 AND status='pending';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(status))
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	// Distinguish missing row from an already-terminal one.
	if _, err := r.FindByID(ctx, tx, id); err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

func (r *transactionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.TransactionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM transactions GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.TransactionStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.TransactionStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}
