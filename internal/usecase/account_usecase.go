package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/labelpay/labelpay/internal/domain"
)

// AccountUseCase handles account management: login, creation under the
// resale hierarchy, password resets and role-scoped reads.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo, idGen: idGen}
}

// Login verifies credentials and returns the account. The caller is
// responsible for issuing a session token carrying only the account id.
func (uc *AccountUseCase) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if account == nil {
		// Same error as a bad password so callers cannot probe emails.
		return nil, domain.ErrInvalidCredentials
	}

	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	account.HashedPassword = ""

	return account, nil
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// CreateAccount creates an account under the actor. Resellers may only
// create USER accounts; the creator reference is always forced to the
// actor, never taken from the request.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, actor *domain.Account, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.Authorize(actor, domain.OpCreateAccount, nil); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	if actor.Role == domain.RoleReseller && input.Role != domain.RoleUser {
		return nil, &domain.PermissionError{Reason: domain.DenyForbiddenRole, Op: domain.OpCreateAccount}
	}

	existing, err := uc.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	creatorID := actor.ID

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: string(hash),
		Role:           input.Role,
		CreatorID:      &creatorID,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	account.HashedPassword = ""

	return account, nil
}

// EnsureRootAccount creates the bootstrap Super Admin if no account
// with the given email exists. The password is hashed here, never
// stored anywhere in source or schema. Returns true when the account
// was created on this call.
func (uc *AccountUseCase) EnsureRootAccount(ctx context.Context, email, password string) (bool, error) {
	existing, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           "Root",
		Email:          email,
		HashedPassword: string(hash),
		Role:           domain.RoleSuperAdmin,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return false, err
	}

	return true, nil
}

// ResetPassword sets a new password for the target. Administrative
// resets follow the same creator-chain rule as credit operations.
func (uc *AccountUseCase) ResetPassword(ctx context.Context, actor *domain.Account, targetID, newPassword string) error {
	target, err := uc.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := domain.Authorize(actor, domain.OpResetPassword, target); err != nil {
		return err
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return uc.accountRepo.UpdatePassword(ctx, targetID, string(hash), time.Now().UTC())
}

// GetAccount retrieves an account, enforcing visibility.
func (uc *AccountUseCase) GetAccount(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.OpViewAccount, account); err != nil {
		return nil, err
	}

	account.HashedPassword = ""

	return account, nil
}

// ListAccounts lists accounts visible to the actor: everything for a
// super admin, self plus created accounts for a reseller, self for a
// user.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, actor *domain.Account, limit, offset int) ([]*domain.Account, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewAccount, nil)
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	var (
		accounts []*domain.Account
		err      error
	)

	switch actor.Role {
	case domain.RoleSuperAdmin:
		accounts, err = uc.accountRepo.List(ctx, limit, offset)
	case domain.RoleReseller:
		accounts, err = uc.accountRepo.ListByCreator(ctx, actor.ID, limit, offset)
	default:
		var self *domain.Account
		self, err = uc.accountRepo.GetByID(ctx, actor.ID)
		if self != nil {
			accounts = []*domain.Account{self}
		}
	}

	if err != nil {
		return nil, err
	}

	for _, a := range accounts {
		a.HashedPassword = ""
	}

	return accounts, nil
}
