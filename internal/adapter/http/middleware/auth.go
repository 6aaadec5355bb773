package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/infrastructure/auth"
	"github.com/labelpay/labelpay/internal/usecase"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// AccountContextKey is the context key for the authenticated account.
	AccountContextKey ContextKey = "account"
)

// AuthMiddleware verifies the bearer token and loads the account it
// names. The token carries only the account id; role, status, and
// balance are read from storage on every request so revocations and
// role changes take effect immediately.
func AuthMiddleware(jwtManager *auth.JWTManager, accountRepo usecase.AccountRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			accountID, err := jwtManager.Verify(parts[1])
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			account, err := accountRepo.GetByID(r.Context(), accountID)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					writeAuthError(w, http.StatusUnauthorized, "account no longer exists")
					return
				}
				writeAuthError(w, http.StatusInternalServerError, "internal error")
				return
			}

			if !account.Active {
				writeAuthError(w, http.StatusForbidden, "account is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), AccountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountFromContext extracts the authenticated account from the
// request context.
func GetAccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(AccountContextKey).(*domain.Account)
	return account, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	code := "AUTH_ERROR"
	switch status {
	case http.StatusForbidden:
		code = "PERMISSION_ERROR"
	case http.StatusInternalServerError:
		code = "INTERNAL_ERROR"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
