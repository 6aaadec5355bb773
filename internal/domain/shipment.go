package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentStatus tracks where a label sits in its lifecycle.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "PENDING"
	ShipmentPurchased ShipmentStatus = "PURCHASED"
	ShipmentRefunded  ShipmentStatus = "REFUNDED"
	ShipmentError     ShipmentStatus = "ERROR"
)

// Address is a postal address snapshot frozen onto a shipment at
// purchase time.
type Address struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Parcel is a package dimensions snapshot. Dimensions are in inches,
// weight in ounces.
type Parcel struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Weight decimal.Decimal `json:"weight"`
}

// Shipment represents a purchased (or pending/refunded) label.
type Shipment struct {
	ID                    string
	AccountID             string
	BatchID               *string
	ProviderTransactionID string
	ProviderObjectID      string
	TrackingNumber        string
	LabelURL              string
	Cost                  decimal.Decimal
	Carrier               string
	Service               string
	AddressFrom           Address
	AddressTo             Address
	Parcel                Parcel
	Status                ShipmentStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ValidateRefund checks the status transition into REFUNDED. A second
// refund of an already refunded shipment is a conflict, never a
// double-credit.
func (s *Shipment) ValidateRefund() error {
	switch s.Status {
	case ShipmentPurchased:
		return nil
	case ShipmentRefunded:
		return ErrAlreadyRefunded
	default:
		return ErrShipmentNotRefundable
	}
}

// Rate is a carrier quote returned by the provider for a shipment.
type Rate struct {
	ID            string
	Carrier       string
	Service       string
	Amount        decimal.Decimal
	Currency      string
	EstimatedDays int
}

// ProviderLabel is the provider's answer to a successful purchase.
type ProviderLabel struct {
	TransactionID  string
	ObjectID       string
	Cost           decimal.Decimal
	Currency       string
	Carrier        string
	Service        string
	TrackingNumber string
	LabelURL       string
	AddressFrom    Address
	AddressTo      Address
	Parcel         Parcel
}

// AddressValidation is the provider's verdict on an address.
type AddressValidation struct {
	IsValid  bool
	Messages []string
}
