package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
	"github.com/labelpay/labelpay/internal/usecase/mocks"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func TestAccountUseCase_Login(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

	accRepo.Seed(&domain.Account{
		ID:             "u-1",
		Email:          "user@example.com",
		HashedPassword: hashFor(t, "Sup3rSecret"),
		Role:           domain.RoleUser,
		Active:         true,
	})

	t.Run("valid credentials", func(t *testing.T) {
		account, err := uc.Login(context.Background(), "user@example.com", "Sup3rSecret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.ID != "u-1" {
			t.Errorf("expected u-1, got %s", account.ID)
		}
		if account.HashedPassword != "" {
			t.Error("hashed password must not leak out of Login")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Login(context.Background(), "user@example.com", "nope")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := uc.Login(context.Background(), "ghost@example.com", "whatever")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		accRepo.Seed(&domain.Account{
			ID:             "u-2",
			Email:          "gone@example.com",
			HashedPassword: hashFor(t, "Sup3rSecret"),
			Role:           domain.RoleUser,
			Active:         false,
		})

		_, err := uc.Login(context.Background(), "gone@example.com", "Sup3rSecret")
		if !errors.Is(err, domain.ErrAccountInactive) {
			t.Errorf("expected ErrAccountInactive, got %v", err)
		}
	})
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	superAdmin := &domain.Account{ID: "sa-1", Role: domain.RoleSuperAdmin, Active: true}
	reseller := &domain.Account{ID: "rs-a", Role: domain.RoleReseller, Active: true}
	user := &domain.Account{ID: "u-1", Role: domain.RoleUser, Active: true}

	tests := []struct {
		name        string
		actor       *domain.Account
		input       usecase.CreateAccountInput
		wantErr     error
		wantPermErr bool
	}{
		{
			name:  "super admin creates reseller",
			actor: superAdmin,
			input: usecase.CreateAccountInput{Name: "Reseller B", Email: "b@example.com", Password: "Passw0rd1", Role: domain.RoleReseller},
		},
		{
			name:  "reseller creates user",
			actor: reseller,
			input: usecase.CreateAccountInput{Name: "U", Email: "u@example.com", Password: "Passw0rd1", Role: domain.RoleUser},
		},
		{
			name:        "reseller cannot create reseller",
			actor:       reseller,
			input:       usecase.CreateAccountInput{Name: "R", Email: "r@example.com", Password: "Passw0rd1", Role: domain.RoleReseller},
			wantPermErr: true,
		},
		{
			name:        "reseller cannot create super admin",
			actor:       reseller,
			input:       usecase.CreateAccountInput{Name: "A", Email: "a@example.com", Password: "Passw0rd1", Role: domain.RoleSuperAdmin},
			wantPermErr: true,
		},
		{
			name:        "user cannot create accounts",
			actor:       user,
			input:       usecase.CreateAccountInput{Name: "X", Email: "x@example.com", Password: "Passw0rd1", Role: domain.RoleUser},
			wantPermErr: true,
		},
		{
			name:    "invalid role rejected",
			actor:   superAdmin,
			input:   usecase.CreateAccountInput{Name: "X", Email: "x@example.com", Password: "Passw0rd1", Role: "OPERATOR"},
			wantErr: domain.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accRepo := mocks.NewMockAccountRepository()
			uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

			account, err := uc.CreateAccount(context.Background(), tt.actor, tt.input)

			if tt.wantPermErr {
				var permErr *domain.PermissionError
				if !errors.As(err, &permErr) {
					t.Fatalf("expected PermissionError, got %v", err)
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if account.CreatorID == nil || *account.CreatorID != tt.actor.ID {
				t.Error("creator reference must be forced to the actor")
			}
			if !account.Active {
				t.Error("new accounts start active")
			}
			if !account.CreditBalance.IsZero() {
				t.Error("new accounts start with zero balance")
			}
		})
	}
}

func TestAccountUseCase_CreateAccount_DuplicateEmail(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

	superAdmin := &domain.Account{ID: "sa-1", Role: domain.RoleSuperAdmin, Active: true}
	accRepo.Seed(&domain.Account{ID: "u-1", Email: "taken@example.com", Role: domain.RoleUser})

	_, err := uc.CreateAccount(context.Background(), superAdmin, usecase.CreateAccountInput{
		Name: "X", Email: "taken@example.com", Password: "Passw0rd1", Role: domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountUseCase_ResetPassword(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

	resellerA := &domain.Account{ID: "rs-a", Role: domain.RoleReseller, Active: true}
	resellerB := &domain.Account{ID: "rs-b", Role: domain.RoleReseller, CreatorID: strPtr("sa-1"), Active: true}
	userOfA := &domain.Account{ID: "u-1", Role: domain.RoleUser, CreatorID: strPtr("rs-a"), Active: true, UpdatedAt: time.Now()}
	accRepo.Seed(resellerA, resellerB, userOfA)

	if err := uc.ResetPassword(context.Background(), resellerA, "u-1", "NewPassw0rd"); err != nil {
		t.Fatalf("reseller reset of own user failed: %v", err)
	}

	updated, _ := accRepo.GetByID(context.Background(), "u-1")
	if updated.HashedPassword == "" {
		t.Error("expected password hash to be stored")
	}

	err := uc.ResetPassword(context.Background(), resellerA, "rs-b", "NewPassw0rd")
	var permErr *domain.PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if permErr.Reason != domain.DenyForbiddenNotOwner {
		t.Errorf("expected FORBIDDEN_NOT_OWNER, got %s", permErr.Reason)
	}
}

func TestAccountUseCase_ListAccounts_Scoping(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

	superAdmin := &domain.Account{ID: "sa-1", Role: domain.RoleSuperAdmin, Active: true}
	resellerA := &domain.Account{ID: "rs-a", Role: domain.RoleReseller, CreatorID: strPtr("sa-1"), Active: true}
	userOfA := &domain.Account{ID: "u-1", Role: domain.RoleUser, CreatorID: strPtr("rs-a"), Active: true}
	userOfB := &domain.Account{ID: "u-2", Role: domain.RoleUser, CreatorID: strPtr("rs-b"), Active: true}
	accRepo.Seed(superAdmin, resellerA, userOfA, userOfB)

	all, err := uc.ListAccounts(context.Background(), superAdmin, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("super admin should see all 4 accounts, got %d", len(all))
	}

	scoped, err := uc.ListAccounts(context.Background(), resellerA, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range scoped {
		if a.ID == "u-2" {
			t.Error("reseller must not see accounts outside its creator chain")
		}
	}

	own, err := uc.ListAccounts(context.Background(), userOfA, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 || own[0].ID != "u-1" {
		t.Errorf("user should only see itself, got %d accounts", len(own))
	}
}

func TestAccountUseCase_EnsureRootAccount(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

	created, err := uc.EnsureRootAccount(context.Background(), "root@labelpay.local", "changeme-on-first-login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected the root account to be created")
	}

	root, err := accRepo.GetByEmail(context.Background(), "root@labelpay.local")
	if err != nil || root == nil {
		t.Fatalf("root account not stored: %v", err)
	}
	if root.Role != domain.RoleSuperAdmin {
		t.Errorf("expected SUPER_ADMIN, got %s", root.Role)
	}
	if !root.Active {
		t.Error("root account must be active")
	}
	if root.CreatorID != nil {
		t.Error("root account must not have a creator")
	}

	// The stored hash must verify against the configured password, or
	// a fresh deployment has no way in at all.
	if err := bcrypt.CompareHashAndPassword([]byte(root.HashedPassword), []byte("changeme-on-first-login")); err != nil {
		t.Errorf("stored hash does not match the configured password: %v", err)
	}
}

func TestAccountUseCase_EnsureRootAccountIsIdempotent(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator())

	accRepo.Seed(&domain.Account{
		ID:             "root-1",
		Email:          "root@labelpay.local",
		HashedPassword: hashFor(t, "already-rotated"),
		Role:           domain.RoleSuperAdmin,
		Active:         true,
	})

	created, err := uc.EnsureRootAccount(context.Background(), "root@labelpay.local", "changeme-on-first-login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("existing root account must not be recreated")
	}

	root, err := accRepo.GetByEmail(context.Background(), "root@labelpay.local")
	if err != nil || root == nil {
		t.Fatalf("root account missing: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(root.HashedPassword), []byte("already-rotated")) != nil {
		t.Error("a rotated password must survive restarts")
	}
}
