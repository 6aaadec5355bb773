package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/adapter/http/dto"
	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

type creditServiceStub struct {
	assignFn func(ctx context.Context, actor *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error)
	revokeFn func(ctx context.Context, actor *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error)
}

func (s *creditServiceStub) Assign(ctx context.Context, actor *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error) {
	return s.assignFn(ctx, actor, input)
}

func (s *creditServiceStub) Revoke(ctx context.Context, actor *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error) {
	return s.revokeFn(ctx, actor, input)
}

// passthroughRetrier runs the operation once with no retry.
type passthroughRetrier struct {
	calls int
}

func (r *passthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	r.calls++
	return operation()
}

func TestCreditHandler_Assign_Success(t *testing.T) {
	actor := &domain.Account{ID: "rs-1", Role: domain.RoleReseller, Active: true}
	result := &usecase.CreditResult{
		Transactions: []*domain.Transaction{{
			ID:        "t-1",
			AccountID: "u-1",
			Kind:      domain.KindCreditAssign,
			Amount:    decimal.NewFromInt(50),
		}},
		TargetBalance: decimal.NewFromInt(150),
	}

	retrier := &passthroughRetrier{}
	handler := NewCreditHandler(&creditServiceStub{
		assignFn: func(ctx context.Context, a *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error) {
			if input.TargetID != "u-1" {
				t.Fatalf("expected target u-1, got %s", input.TargetID)
			}
			return result, nil
		},
	}, retrier)

	body, _ := json.Marshal(dto.CreditRequest{
		UserID: "u-1",
		Amount: decimal.NewFromInt(50),
	})

	req := withActor(httptest.NewRequest(http.MethodPost, "/credits/assign", bytes.NewReader(body)), actor)
	rec := httptest.NewRecorder()

	handler.Assign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if retrier.calls != 1 {
		t.Fatalf("expected the assign to run through the retrier, calls=%d", retrier.calls)
	}

	var resp dto.CreditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success to be true")
	}
	if resp.Transaction.ID != "t-1" {
		t.Fatalf("expected transaction t-1, got %s", resp.Transaction.ID)
	}
	if !resp.CreditBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance 150, got %s", resp.CreditBalance)
	}
}

func TestCreditHandler_Assign_InsufficientBalance(t *testing.T) {
	handler := NewCreditHandler(&creditServiceStub{
		assignFn: func(ctx context.Context, a *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error) {
			return nil, domain.ErrInsufficientBalance
		},
	}, &passthroughRetrier{})

	body, _ := json.Marshal(dto.CreditRequest{
		UserID: "u-1",
		Amount: decimal.NewFromInt(5000),
	})

	req := withActor(httptest.NewRequest(http.MethodPost, "/credits/assign", bytes.NewReader(body)), &domain.Account{ID: "rs-1"})
	rec := httptest.NewRecorder()

	handler.Assign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "INSUFFICIENT_BALANCE" {
		t.Fatalf("expected INSUFFICIENT_BALANCE, got %s", resp.Code)
	}
}

func TestCreditHandler_Revoke_PermissionDenied(t *testing.T) {
	handler := NewCreditHandler(&creditServiceStub{
		revokeFn: func(ctx context.Context, a *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error) {
			return nil, &domain.PermissionError{Reason: domain.DenyForbiddenNotOwner, Op: domain.OpRevokeCredit}
		},
	}, &passthroughRetrier{})

	body, _ := json.Marshal(dto.CreditRequest{
		UserID: "u-2",
		Amount: decimal.NewFromInt(10),
	})

	req := withActor(httptest.NewRequest(http.MethodPost, "/credits/revoke", bytes.NewReader(body)), &domain.Account{ID: "rs-1"})
	rec := httptest.NewRecorder()

	handler.Revoke(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCreditHandler_Assign_MissingUserID(t *testing.T) {
	handler := NewCreditHandler(&creditServiceStub{
		assignFn: func(ctx context.Context, a *domain.Account, input usecase.CreditInput) (*usecase.CreditResult, error) {
			t.Fatal("Assign should not be called for an invalid payload")
			return nil, nil
		},
	}, &passthroughRetrier{})

	body, _ := json.Marshal(dto.CreditRequest{Amount: decimal.NewFromInt(10)})

	req := withActor(httptest.NewRequest(http.MethodPost, "/credits/assign", bytes.NewReader(body)), &domain.Account{ID: "rs-1"})
	rec := httptest.NewRecorder()

	handler.Assign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
