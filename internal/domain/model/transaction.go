package model

import (
	"strings"
	"time"

	"memorial-platform/internal/domain"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"   // principal submitted a payment claim
	TransactionStatusCompleted TransactionStatus = "completed" // admin verified the payment
	TransactionStatusFailed    TransactionStatus = "failed"    // admin rejected the payment
)

// Terminal reports whether no further status transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

type PaymentMethod string

const (
	PaymentMethodGCash        PaymentMethod = "gcash"
	PaymentMethodMaya         PaymentMethod = "maya"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func knownPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodGCash, PaymentMethodMaya, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// DefaultCurrency is applied when a payment claim omits the currency code.
const DefaultCurrency = "PHP"

// Transaction records one payment attempt. Status moves pending ->
// completed|failed exactly once and is immutable afterwards.
type Transaction struct {
	ID          string // ULID, sortable by submission time
	PrincipalID string
	PlanKey     PlanKey
	Amount      int64 // centavos, integer to avoid float errors
	Currency    string
	Method      PaymentMethod
	ReferenceNo string
	ProofRef    string // durable stored reference to proof of payment, optional
	Status      TransactionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// transientProofRef detects client-local handles (browser object URLs and
// inline data URLs). Those dangle once the submitting session ends, so they
// must never be persisted.
func transientProofRef(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "blob:") || strings.HasPrefix(ref, "data:")
}

// NewTransaction validates and constructs a pending payment claim.
func NewTransaction(id, principalID string, plan PlanKey, amount int64, currency string, method PaymentMethod, referenceNo, proofRef string) (*Transaction, error) {
	if id == "" || principalID == "" || referenceNo == "" {
		return nil, domain.ErrInvalidArgument
	}
	if amount <= 0 || !knownPaymentMethod(method) {
		return nil, domain.ErrInvalidArgument
	}
	if !KnownPlanKey(plan) || CanonicalPlanKey(plan) == PlanFree {
		return nil, domain.ErrInvalidArgument
	}
	if proofRef != "" && transientProofRef(proofRef) {
		return nil, domain.ErrTransientProofRef
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	now := time.Now()
	return &Transaction{
		ID:          id,
		PrincipalID: principalID,
		PlanKey:     CanonicalPlanKey(plan),
		Amount:      amount,
		Currency:    currency,
		Method:      method,
		ReferenceNo: referenceNo,
		ProofRef:    proofRef,
		Status:      TransactionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanTransitionTo enforces the one-way lifecycle: only a pending transaction
// may move, and only into a terminal status.
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	return t.Status == TransactionStatusPending && next.Terminal()
}
