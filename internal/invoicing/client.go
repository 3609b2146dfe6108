package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

// Contact is the accounting system's customer record.
type Contact struct {
	ID      int    `json:"id"`
	Name    string `json:"name_1"`
	Company string `json:"name_2,omitempty"`
	Email   string `json:"mail"`
	Street  string `json:"address"`
	Zip     string `json:"postcode"`
	City    string `json:"city"`
}

// Invoice is the accounting system's invoice record.
type Invoice struct {
	ID         int    `json:"id"`
	DocumentNr string `json:"document_nr"`
	ContactID  int    `json:"contact_id"`
	Title      string `json:"title"`
}

// DepositInvoice describes the deposit invoice to raise for a signed
// contract. Amounts are integer CHF.
type DepositInvoice struct {
	SubmissionID      string
	ProjectName       string
	TotalPrice        int
	DepositPercentage int
	DepositAmount     int
}

// Client talks to the external accounting API. All calls are
// synchronous; the caller decides how failures affect the submission
// flow.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	logger     *zap.Logger
}

// NewClient creates an accounting API client.
func NewClient(baseURL, apiToken string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		apiToken: apiToken,
		logger:   logger,
	}
}

// EnsureContact returns the accounting contact for the client, creating
// it when no contact with the same email exists yet.
func (c *Client) EnsureContact(ctx context.Context, info domain.ClientInfo) (*Contact, error) {
	contact, err := c.SearchContactByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if contact != nil {
		return contact, nil
	}
	return c.CreateContact(ctx, info)
}

// SearchContactByEmail looks up a contact by exact email. Returns nil
// without error when none exists.
func (c *Client) SearchContactByEmail(ctx context.Context, email string) (*Contact, error) {
	criteria := []map[string]string{
		{"field": "mail", "value": email, "criteria": "="},
	}
	var contacts []Contact
	if err := c.do(ctx, http.MethodPost, "/2.0/contact/search", criteria, &contacts); err != nil {
		return nil, fmt.Errorf("contact search failed: %w", err)
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// CreateContact creates a new accounting contact from the onboarding
// contact block.
func (c *Client) CreateContact(ctx context.Context, info domain.ClientInfo) (*Contact, error) {
	payload := Contact{
		Name:    info.Name,
		Company: info.Company,
		Email:   info.Email,
		Street:  info.Street,
		Zip:     info.Zip,
		City:    info.City,
	}
	var created Contact
	if err := c.do(ctx, http.MethodPost, "/2.0/contact", payload, &created); err != nil {
		return nil, fmt.Errorf("contact creation failed: %w", err)
	}
	c.logger.Info("Created accounting contact",
		zap.Int("contact_id", created.ID),
		zap.String("email", info.Email))
	return &created, nil
}

// CreateDepositInvoice raises a draft invoice over the deposit amount
// for the given contact.
func (c *Client) CreateDepositInvoice(ctx context.Context, contactID int, deposit DepositInvoice) (*Invoice, error) {
	payload := map[string]any{
		"contact_id": contactID,
		"title":      fmt.Sprintf("Anzahlung %s", deposit.ProjectName),
		"positions": []map[string]any{
			{
				"type": "KbPositionCustom",
				"text": fmt.Sprintf("Anzahlung %d%% auf Gesamtpreis CHF %d (Referenz %s)",
					deposit.DepositPercentage, deposit.TotalPrice, deposit.SubmissionID),
				"amount":     1,
				"unit_price": strconv.Itoa(deposit.DepositAmount),
			},
		},
	}
	var created Invoice
	if err := c.do(ctx, http.MethodPost, "/2.0/kb_invoice", payload, &created); err != nil {
		return nil, fmt.Errorf("invoice creation failed: %w", err)
	}
	return &created, nil
}

// IssueAndSend marks the invoice as issued and emails it to the contact
// through the accounting system.
func (c *Client) IssueAndSend(ctx context.Context, invoiceID int) error {
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/2.0/kb_invoice/%d/issue", invoiceID), nil, nil); err != nil {
		return fmt.Errorf("invoice issue failed: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/2.0/kb_invoice/%d/send", invoiceID), nil, nil); err != nil {
		return fmt.Errorf("invoice send failed: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("accounting api returned status %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
