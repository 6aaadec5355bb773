package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
)

// CreditUseCase moves credit between accounts. Every call mutates
// balances and appends ledger rows inside a single database transaction;
// a balance change without its ledger row (or vice versa) cannot occur.
type CreditUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	maxAmount   decimal.Decimal
}

// NewCreditUseCase creates a new CreditUseCase. maxAmount bounds a
// single assign/revoke call.
func NewCreditUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	maxAmount decimal.Decimal,
) *CreditUseCase {
	return &CreditUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		maxAmount:   maxAmount,
	}
}

// CreditInput represents input for an assign or revoke call.
type CreditInput struct {
	TargetID    string
	Amount      decimal.Decimal
	Description string
}

// CreditResult reports the outcome of an assign or revoke call.
// Transactions holds the ledger rows written for this event, target
// row first.
type CreditResult struct {
	Transactions  []*domain.Transaction
	TargetBalance decimal.Decimal
	ActorBalance  decimal.Decimal
}

// Assign moves credit from the actor's pool to the target account.
//
// A reseller's own balance is debited and two ledger rows are written
// (CREDIT_REVOKE on the actor, CREDIT_ASSIGN on the target), conserving
// the combined balance. A super admin mints: only the target is
// credited and a single CREDIT_ASSIGN row is written.
func (uc *CreditUseCase) Assign(ctx context.Context, actor *domain.Account, input CreditInput) (*CreditResult, error) {
	if err := uc.validateInput(actor, input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	actorRow, target, err := uc.lockPair(ctx, tx, actor, input.TargetID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actorRow, domain.OpAssignCredit, target); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &CreditResult{}

	if actorRow.Role == domain.RoleReseller {
		if err := actorRow.ValidateDebit(input.Amount); err != nil {
			return nil, err
		}

		newActorBalance := actorRow.ApplyDebit(input.Amount)
		actorTxn := &domain.Transaction{
			ID:          uc.idGen.Generate(),
			AccountID:   actorRow.ID,
			Kind:        domain.KindCreditRevoke,
			Amount:      input.Amount,
			Description: input.Description,
			CreatedByID: actorRow.ID,
			CreatedAt:   now,
		}

		if err := uc.txnRepo.Create(ctx, tx, actorTxn); err != nil {
			return nil, err
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, actorRow.ID, newActorBalance, now); err != nil {
			return nil, err
		}

		result.ActorBalance = newActorBalance
		result.Transactions = append(result.Transactions, actorTxn)
	} else {
		// Super admin is the minting authority; its pool is not debited.
		result.ActorBalance = actorRow.CreditBalance
	}

	newTargetBalance := target.ApplyCredit(input.Amount)
	targetTxn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   target.ID,
		Kind:        domain.KindCreditAssign,
		Amount:      input.Amount,
		Description: input.Description,
		CreatedByID: actorRow.ID,
		CreatedAt:   now,
	}

	if err := uc.txnRepo.Create(ctx, tx, targetTxn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, target.ID, newTargetBalance, now); err != nil {
		return nil, err
	}

	result.TargetBalance = newTargetBalance
	// Target row first.
	result.Transactions = append([]*domain.Transaction{targetTxn}, result.Transactions...)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// Revoke pulls credit out of the target account. A reseller reclaims
// the funds into its own pool (two ledger rows); a super admin destroys
// them (a single CREDIT_REVOKE row on the target).
func (uc *CreditUseCase) Revoke(ctx context.Context, actor *domain.Account, input CreditInput) (*CreditResult, error) {
	if err := uc.validateInput(actor, input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	actorRow, target, err := uc.lockPair(ctx, tx, actor, input.TargetID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actorRow, domain.OpRevokeCredit, target); err != nil {
		return nil, err
	}

	if err := target.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	newTargetBalance := target.ApplyDebit(input.Amount)
	targetTxn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   target.ID,
		Kind:        domain.KindCreditRevoke,
		Amount:      input.Amount,
		Description: input.Description,
		CreatedByID: actorRow.ID,
		CreatedAt:   now,
	}

	if err := uc.txnRepo.Create(ctx, tx, targetTxn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, target.ID, newTargetBalance, now); err != nil {
		return nil, err
	}

	result := &CreditResult{
		Transactions:  []*domain.Transaction{targetTxn},
		TargetBalance: newTargetBalance,
		ActorBalance:  actorRow.CreditBalance,
	}

	if actorRow.Role == domain.RoleReseller {
		// Reclaimed funds return to the reseller's pool.
		newActorBalance := actorRow.ApplyCredit(input.Amount)
		actorTxn := &domain.Transaction{
			ID:          uc.idGen.Generate(),
			AccountID:   actorRow.ID,
			Kind:        domain.KindCreditAssign,
			Amount:      input.Amount,
			Description: input.Description,
			CreatedByID: actorRow.ID,
			CreatedAt:   now,
		}

		if err := uc.txnRepo.Create(ctx, tx, actorTxn); err != nil {
			return nil, err
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, actorRow.ID, newActorBalance, now); err != nil {
			return nil, err
		}

		result.ActorBalance = newActorBalance
		result.Transactions = append(result.Transactions, actorTxn)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *CreditUseCase) validateInput(actor *domain.Account, input CreditInput) error {
	if actor == nil {
		return domain.Authorize(nil, domain.OpAssignCredit, nil)
	}

	if err := domain.ValidateCreditAmount(input.Amount, uc.maxAmount); err != nil {
		return err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return err
	}

	if actor.ID == input.TargetID {
		return domain.ErrSameAccount
	}

	return nil
}

// lockPair locks actor and target rows in sorted id order (deadlock
// prevention) and returns fresh copies. The locked actor row, not the
// request-scoped snapshot, is what policy and balance checks run on.
func (uc *CreditUseCase) lockPair(ctx context.Context, tx Transaction, actor *domain.Account, targetID string) (actorRow, target *domain.Account, err error) {
	ids := []string{actor.ID, targetID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}

	for _, a := range accounts {
		switch a.ID {
		case actor.ID:
			actorRow = a
		case targetID:
			target = a
		}
	}

	if target == nil {
		return nil, nil, domain.ErrAccountNotFound
	}

	if actorRow == nil {
		return nil, nil, domain.ErrAccountNotFound
	}

	return actorRow, target, nil
}
