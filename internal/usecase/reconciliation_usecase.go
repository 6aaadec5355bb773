package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
)

// ReconciliationUseCase recomputes balances from the ledger and reports
// drift. The ledger is the source of truth for every balance change, so
// a non-zero difference means a correctness violation somewhere.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(accountRepo AccountRepository, txnRepo TransactionRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{accountRepo: accountRepo, txnRepo: txnRepo}
}

// ReconciliationResult represents the result of a reconciliation check.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount verifies one account's balance against the sum of
// its signed ledger rows.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.txnRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	diff := account.CreditBalance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.CreditBalance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles every non-root account. Super admin
// accounts are skipped: they mint and destroy credit without reciprocal
// rows, so their ledger sum is not expected to match.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	const pageSize = 500

	var results []*ReconciliationResult
	for offset := 0; ; offset += pageSize {
		accounts, err := uc.accountRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			if account.Role == domain.RoleSuperAdmin {
				continue
			}

			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("reconcile account %s: %w", account.ID, err)
			}

			results = append(results, result)
		}

		if len(accounts) < pageSize {
			break
		}
	}

	return results, nil
}
