package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
)

// Client implements usecase.ShippingProvider against the provider's
// REST API. Rate quotes and address validation retry on transient
// failures; Purchase never does, because an ambiguous response must be
// treated as not-purchased rather than risk paying for two labels.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger

	maxRetries      uint64
	initialInterval time.Duration
}

// NewClient creates a new provider client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:         baseURL,
		apiKey:          apiKey,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
		maxRetries:      3,
		initialInterval: 200 * time.Millisecond,
	}
}

type rateResponse struct {
	ObjectID      string `json:"object_id"`
	Provider      string `json:"provider"`
	ServiceLevel  string `json:"servicelevel_name"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	EstimatedDays int    `json:"estimated_days"`
}

type shipmentRequest struct {
	AddressFrom domain.Address `json:"address_from"`
	AddressTo   domain.Address `json:"address_to"`
	Parcel      domain.Parcel  `json:"parcel"`
	Async       bool           `json:"async"`
}

type shipmentResponse struct {
	Rates []rateResponse `json:"rates"`
}

// GetRates quotes carrier rates for a shipment.
func (c *Client) GetRates(ctx context.Context, from, to domain.Address, parcel domain.Parcel) ([]*domain.Rate, error) {
	req := shipmentRequest{AddressFrom: from, AddressTo: to, Parcel: parcel, Async: false}

	var resp shipmentResponse
	err := c.doWithRetry(ctx, http.MethodPost, "/shipments/", req, &resp)
	if err != nil {
		return nil, err
	}

	rates := make([]*domain.Rate, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			c.logger.Warn().Str("rate_id", r.ObjectID).Str("amount", r.Amount).Msg("skipping rate with unparseable amount")
			continue
		}

		rates = append(rates, &domain.Rate{
			ID:            r.ObjectID,
			Carrier:       r.Provider,
			Service:       r.ServiceLevel,
			Amount:        amount,
			Currency:      r.Currency,
			EstimatedDays: r.EstimatedDays,
		})
	}

	return rates, nil
}

type addressValidationResponse struct {
	ValidationResults struct {
		IsValid  bool `json:"is_valid"`
		Messages []struct {
			Text string `json:"text"`
		} `json:"messages"`
	} `json:"validation_results"`
}

// ValidateAddress asks the provider to verify a postal address.
func (c *Client) ValidateAddress(ctx context.Context, address domain.Address) (*domain.AddressValidation, error) {
	payload := struct {
		domain.Address
		Validate bool `json:"validate"`
	}{Address: address, Validate: true}

	var resp addressValidationResponse
	if err := c.doWithRetry(ctx, http.MethodPost, "/addresses/", payload, &resp); err != nil {
		return nil, err
	}

	result := &domain.AddressValidation{IsValid: resp.ValidationResults.IsValid}
	for _, m := range resp.ValidationResults.Messages {
		result.Messages = append(result.Messages, m.Text)
	}

	return result, nil
}

type purchaseRequest struct {
	Rate          string `json:"rate"`
	LabelFileType string `json:"label_file_type"`
	Async         bool   `json:"async"`
}

type purchaseResponse struct {
	ObjectID       string         `json:"object_id"`
	Status         string         `json:"status"`
	Rate           rateResponse   `json:"rate"`
	TrackingNumber string         `json:"tracking_number"`
	LabelURL       string         `json:"label_url"`
	AddressFrom    domain.Address `json:"address_from"`
	AddressTo      domain.Address `json:"address_to"`
	Parcel         domain.Parcel  `json:"parcel"`
	Messages       []struct {
		Text string `json:"text"`
	} `json:"messages"`
}

// Purchase buys a label for a previously quoted rate. The call is made
// exactly once; transport errors surface to the caller unretried.
func (c *Client) Purchase(ctx context.Context, rateID, labelFormat string) (*domain.ProviderLabel, error) {
	req := purchaseRequest{Rate: rateID, LabelFileType: labelFormat, Async: false}

	var resp purchaseResponse
	if err := c.do(ctx, http.MethodPost, "/transactions/", req, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "SUCCESS" {
		msg := "purchase rejected"
		if len(resp.Messages) > 0 {
			msg = resp.Messages[0].Text
		}
		return nil, fmt.Errorf("provider: %s (status %s)", msg, resp.Status)
	}

	cost, err := decimal.NewFromString(resp.Rate.Amount)
	if err != nil {
		return nil, fmt.Errorf("provider: unparseable label cost %q: %w", resp.Rate.Amount, err)
	}

	return &domain.ProviderLabel{
		TransactionID:  resp.ObjectID,
		ObjectID:       resp.ObjectID,
		Cost:           cost,
		Currency:       resp.Rate.Currency,
		Carrier:        resp.Rate.Provider,
		Service:        resp.Rate.ServiceLevel,
		TrackingNumber: resp.TrackingNumber,
		LabelURL:       resp.LabelURL,
		AddressFrom:    resp.AddressFrom,
		AddressTo:      resp.AddressTo,
		Parcel:         resp.Parcel,
	}, nil
}

type refundResponse struct {
	ObjectID string `json:"object_id"`
	Status   string `json:"status"`
}

// Refund requests a refund for a purchased label.
func (c *Client) Refund(ctx context.Context, providerTxID string) error {
	req := struct {
		Transaction string `json:"transaction"`
		Async       bool   `json:"async"`
	}{Transaction: providerTxID, Async: false}

	var resp refundResponse
	if err := c.do(ctx, http.MethodPost, "/refunds/", req, &resp); err != nil {
		return err
	}

	switch resp.Status {
	case "SUCCESS", "PENDING", "QUEUED":
		return nil
	default:
		return fmt.Errorf("provider: refund rejected (status %s)", resp.Status)
	}
}

// doWithRetry wraps do with exponential backoff for calls that are safe
// to repeat.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body, out any) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(backoff.WithInitialInterval(c.initialInterval)), c.maxRetries)

	return backoff.Retry(func() error {
		err := c.do(ctx, method, path, body, out)
		if err == nil {
			return nil
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			// Client errors will not heal on retry.
			return backoff.Permanent(err)
		}

		c.logger.Warn().Str("path", path).Err(err).Msg("provider call failed, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ShippoToken "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &apiError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return json.Unmarshal(data, out)
}

// apiError is a non-2xx provider response.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
}
