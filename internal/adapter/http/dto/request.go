package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

var validate = validator.New()

// Validate runs struct validation on a request.
func Validate(req any) error {
	return validate.Struct(req)
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name     string `json:"name"     validate:"required,max=128"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role"     validate:"required,oneof=SUPER_ADMIN RESELLER USER"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// ResetPasswordRequest represents an administrative password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// CreditRequest represents a credit assign or revoke request.
type CreditRequest struct {
	UserID      string          `json:"userId"      validate:"required"`
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Description string          `json:"description" validate:"max=512"`
}

// ToUseCaseInput converts to use case input.
func (r *CreditRequest) ToUseCaseInput() usecase.CreditInput {
	return usecase.CreditInput{
		TargetID:    r.UserID,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// AddressRequest represents a postal address in requests.
type AddressRequest struct {
	Name    string `json:"name"              validate:"required"`
	Street1 string `json:"street1"           validate:"required"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"              validate:"required"`
	State   string `json:"state"`
	Zip     string `json:"zip"               validate:"required"`
	Country string `json:"country"           validate:"required,len=2"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"   validate:"omitempty,email"`
}

// ToDomain converts to a domain address.
func (r *AddressRequest) ToDomain() domain.Address {
	return domain.Address{
		Name:    r.Name,
		Street1: r.Street1,
		Street2: r.Street2,
		City:    r.City,
		State:   r.State,
		Zip:     r.Zip,
		Country: r.Country,
		Phone:   r.Phone,
		Email:   r.Email,
	}
}

// ParcelRequest represents parcel dimensions in requests.
type ParcelRequest struct {
	Length decimal.Decimal `json:"length" validate:"required"`
	Width  decimal.Decimal `json:"width"  validate:"required"`
	Height decimal.Decimal `json:"height" validate:"required"`
	Weight decimal.Decimal `json:"weight" validate:"required"`
}

// ToDomain converts to a domain parcel.
func (r *ParcelRequest) ToDomain() domain.Parcel {
	return domain.Parcel{
		Length: r.Length,
		Width:  r.Width,
		Height: r.Height,
		Weight: r.Weight,
	}
}

// GetRatesRequest represents a rate quote request.
type GetRatesRequest struct {
	AddressFrom AddressRequest `json:"addressFrom" validate:"required"`
	AddressTo   AddressRequest `json:"addressTo"   validate:"required"`
	Parcel      ParcelRequest  `json:"parcel"      validate:"required"`
}

// ValidateAddressRequest represents an address validation request.
type ValidateAddressRequest struct {
	Address AddressRequest `json:"address" validate:"required"`
}

// PurchaseLabelRequest represents a label purchase request.
type PurchaseLabelRequest struct {
	RateID      string `json:"rateId"      validate:"required"`
	LabelFormat string `json:"labelFormat" validate:"omitempty,oneof=PDF PNG ZPLII"`
}

// ToUseCaseInput converts to use case input.
func (r *PurchaseLabelRequest) ToUseCaseInput() usecase.PurchaseInput {
	return usecase.PurchaseInput{
		RateID:      r.RateID,
		LabelFormat: r.LabelFormat,
	}
}

// RefundLabelRequest represents a label refund request.
type RefundLabelRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

// CreateBatchRequest represents a bulk label purchase request.
type CreateBatchRequest struct {
	Rows []BatchRowRequest `json:"rows" validate:"required,min=1,max=500,dive"`
}

// BatchRowRequest is one row of a batch.
type BatchRowRequest struct {
	RateID      string `json:"rateId"      validate:"required"`
	LabelFormat string `json:"labelFormat" validate:"omitempty,oneof=PDF PNG ZPLII"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBatchRequest) ToUseCaseInput() []usecase.BatchRow {
	rows := make([]usecase.BatchRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = usecase.BatchRow{RateID: row.RateID, LabelFormat: row.LabelFormat}
	}
	return rows
}
