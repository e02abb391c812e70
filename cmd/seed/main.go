package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"memorial-platform/internal/config"
	"memorial-platform/internal/domain/model"
	pg "memorial-platform/internal/infra/db/postgres"
)

// Seeds one demo principal with a completed purchase and matching grant so
// the review and entitlement flows can be exercised against a fresh database.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	txRepo := pg.NewTransactionRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)

	const principalID = "demo-principal"

	if existing, err := subRepo.ListByPrincipal(ctx, nil, principalID); err == nil && len(existing) > 0 {
		fmt.Printf("%d demo subscriptions already present. No changes.\n", len(existing))
		return
	}

	completed, err := model.NewTransaction(ulid.Make().String(), principalID,
		model.PlanEternalEcho, 49900, cfg.Billing.Currency,
		model.PaymentMethodGCash, "GC-2024-0001", "uploads/proof/gc-2024-0001.jpg")
	if err != nil {
		log.Fatalf("build transaction: %v", err)
	}
	completed.Status = model.TransactionStatusCompleted
	if err := txRepo.Save(ctx, nil, completed); err != nil {
		log.Fatalf("save transaction: %v", err)
	}

	pending, err := model.NewTransaction(ulid.Make().String(), principalID,
		model.PlanPaws, 29900, cfg.Billing.Currency,
		model.PaymentMethodMaya, "MY-2024-0042", "")
	if err != nil {
		log.Fatalf("build pending transaction: %v", err)
	}
	if err := txRepo.Save(ctx, nil, pending); err != nil {
		log.Fatalf("save pending transaction: %v", err)
	}

	grant, err := model.NewSubscription(uuid.NewString(), principalID, model.PlanEternalEcho, nil, false)
	if err != nil {
		log.Fatalf("build subscription: %v", err)
	}
	if err := subRepo.Save(ctx, nil, grant); err != nil {
		log.Fatalf("save subscription: %v", err)
	}

	fmt.Printf("seeded principal %q: 1 completed claim, 1 pending claim, 1 active %s grant\n",
		principalID, model.PlanEternalEcho)
}
