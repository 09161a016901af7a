// Package courier wraps the delivery provider's REST API: consignment
// booking, status lookup, account balance and the bulk delivery-history
// check. The provider is treated as an opaque HTTP service.
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

type Client struct {
	baseURL   string
	apiKey    string
	secretKey string
	http      *http.Client
	log       *logrus.Logger
}

func NewClient(baseURL, apiKey, secretKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
		log:       logger,
	}
}

// ConsignmentRequest books a shipment with the provider. InvoiceID is the
// merchant-side reference and must be unique per booking.
type ConsignmentRequest struct {
	InvoiceID        string  `json:"invoice"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	CODAmount        float64 `json:"cod_amount"`
	Note             string  `json:"note,omitempty"`
}

type Consignment struct {
	ConsignmentID string `json:"consignment_id"`
	TrackingCode  string `json:"tracking_code"`
	Status        string `json:"status"`
}

type consignmentResponse struct {
	Status      int         `json:"status"`
	Message     string      `json:"message"`
	Consignment Consignment `json:"consignment"`
}

func (c *Client) CreateConsignment(ctx context.Context, req ConsignmentRequest) (Consignment, error) {
	var resp consignmentResponse
	if err := c.do(ctx, http.MethodPost, "/create_order", req, &resp); err != nil {
		return Consignment{}, err
	}
	if resp.Status != http.StatusOK {
		return Consignment{}, fmt.Errorf("courier rejected consignment: %s", resp.Message)
	}
	return resp.Consignment, nil
}

// ConsignmentStatus returns the provider's delivery status for a consignment.
func (c *Client) ConsignmentStatus(ctx context.Context, consignmentID string) (string, error) {
	var resp struct {
		Status         int    `json:"status"`
		DeliveryStatus string `json:"delivery_status"`
	}
	path := "/status_by_cid/" + url.PathEscape(consignmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.DeliveryStatus, nil
}

// Balance returns the merchant's current account balance with the provider.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp struct {
		Status  int     `json:"status"`
		Balance float64 `json:"current_balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_balance", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// HistoryReport aggregates a customer's delivery record across couriers,
// used by the back office as a fraud signal before confirming an order.
type HistoryReport struct {
	Phone     string `json:"phone"`
	Total     int    `json:"total"`
	Delivered int    `json:"delivered"`
	Cancelled int    `json:"cancelled"`
}

func (c *Client) DeliveryHistory(ctx context.Context, phone string) (HistoryReport, error) {
	var resp struct {
		Status int           `json:"status"`
		Report HistoryReport `json:"report"`
	}
	path := "/delivery_history/" + url.PathEscape(phone)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return HistoryReport{}, err
	}
	return resp.Report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode courier request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build courier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Secret-Key", c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("courier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warnf("Courier API returned %d for %s %s", resp.StatusCode, method, path)
		return fmt.Errorf("courier API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode courier response: %w", err)
	}
	return nil
}
