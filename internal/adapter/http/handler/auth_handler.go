package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/infrastructure/auth"
	"github.com/labelpay/labelpay/internal/usecase"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	accountUC  *usecase.AccountUseCase
	jwtManager *auth.JWTManager
	logger     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountUC *usecase.AccountUseCase, jwtManager *auth.JWTManager, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accountUC:  accountUC,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login authenticates an account and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn().Str("email", req.Email).Err(err).Msg("login failed")
		writeDomainError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(account)
	if err != nil {
		h.logger.Error().Err(err).Msg("token generation failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:   token,
		Account: dto.AccountFromDomain(account),
	})
}
