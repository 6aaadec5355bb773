package usecase

import (
	"context"

	"github.com/labelpay/labelpay/internal/domain"
)

// LedgerUseCase provides role-scoped read access to the transaction
// ledger. Writes happen only through CreditUseCase and LabelUseCase.
type LedgerUseCase struct {
	txnRepo     TransactionRepository
	accountRepo AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(txnRepo TransactionRepository, accountRepo AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{txnRepo: txnRepo, accountRepo: accountRepo}
}

// ListTransactions lists ledger rows visible to the actor. The filter's
// account scope is intersected with the actor's visibility set so a
// reseller's query can never escape self + created accounts.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, actor *domain.Account, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewTransactions, nil)
	}

	scope, err := visibleAccountIDs(ctx, uc.accountRepo, actor)
	if err != nil {
		return nil, err
	}

	filter.AccountIDs, err = restrictToScope(actor, filter.AccountIDs, scope)
	if err != nil {
		return nil, err
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.txnRepo.List(ctx, filter)
}

// GetTransaction retrieves a single ledger row, enforcing visibility
// against the owning account.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, actor *domain.Account, id string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := uc.accountRepo.GetByID(ctx, txn.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.OpViewTransactions, owner); err != nil {
		return nil, err
	}

	return txn, nil
}

// visibleAccountIDs computes the account ids whose resources the actor
// may read. nil means unrestricted (super admin).
func visibleAccountIDs(ctx context.Context, accountRepo AccountRepository, actor *domain.Account) ([]string, error) {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return nil, nil

	case domain.RoleReseller:
		created, err := accountRepo.ListIDsByCreator(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return append([]string{actor.ID}, created...), nil

	default:
		return []string{actor.ID}, nil
	}
}

// restrictToScope intersects a requested account filter with the
// visibility scope. Requesting an account outside the scope is a
// permission error, not an empty result, so callers can tell the
// difference between "nothing there" and "not yours".
func restrictToScope(actor *domain.Account, requested, scope []string) ([]string, error) {
	if scope == nil {
		return requested, nil
	}

	if len(requested) == 0 {
		return scope, nil
	}

	allowed := make(map[string]bool, len(scope))
	for _, id := range scope {
		allowed[id] = true
	}

	for _, id := range requested {
		if !allowed[id] {
			return nil, domain.Authorize(actor, domain.OpViewTransactions, &domain.Account{ID: id})
		}
	}

	return requested, nil
}
