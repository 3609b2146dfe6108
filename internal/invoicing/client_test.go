package invoicing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/invoicing"
)

var testClientInfo = domain.ClientInfo{
	Name:   "Martina Muster",
	Email:  "martina@muster-zimmerei.ch",
	Phone:  "+41 79 123 45 67",
	Street: "Werkstrasse 12",
	Zip:    "3011",
	City:   "Bern",
}

func TestEnsureContactReturnsExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2.0/contact/search", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var criteria []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&criteria))
		require.Len(t, criteria, 1)
		assert.Equal(t, "martina@muster-zimmerei.ch", criteria[0]["value"])

		json.NewEncoder(w).Encode([]invoicing.Contact{{ID: 42, Email: criteria[0]["value"]}})
	}))
	defer server.Close()

	client := invoicing.NewClient(server.URL, "token", 5*time.Second, zap.NewNop())
	contact, err := client.EnsureContact(context.Background(), testClientInfo)

	require.NoError(t, err)
	assert.Equal(t, 42, contact.ID)
}

func TestEnsureContactCreatesWhenMissing(t *testing.T) {
	var createdPayload invoicing.Contact
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2.0/contact/search":
			json.NewEncoder(w).Encode([]invoicing.Contact{})
		case "/2.0/contact":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createdPayload))
			createdPayload.ID = 77
			json.NewEncoder(w).Encode(createdPayload)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := invoicing.NewClient(server.URL, "token", 5*time.Second, zap.NewNop())
	contact, err := client.EnsureContact(context.Background(), testClientInfo)

	require.NoError(t, err)
	assert.Equal(t, 77, contact.ID)
	assert.Equal(t, "Martina Muster", createdPayload.Name)
	assert.Equal(t, "3011", createdPayload.Zip)
}

func TestCreateDepositInvoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2.0/kb_invoice", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(42), payload["contact_id"])
		positions := payload["positions"].([]any)
		require.Len(t, positions, 1)
		position := positions[0].(map[string]any)
		assert.Equal(t, "990", position["unit_price"])

		json.NewEncoder(w).Encode(invoicing.Invoice{ID: 9001, DocumentNr: "RE-2026-0042", ContactID: 42})
	}))
	defer server.Close()

	client := invoicing.NewClient(server.URL, "token", 5*time.Second, zap.NewNop())
	invoice, err := client.CreateDepositInvoice(context.Background(), 42, invoicing.DepositInvoice{
		SubmissionID:      "3f0e9a4e-0000-0000-0000-000000000001",
		ProjectName:       "Imagefilm Zimmerei Muster",
		TotalPrice:        3300,
		DepositPercentage: 30,
		DepositAmount:     990,
	})

	require.NoError(t, err)
	assert.Equal(t, "RE-2026-0042", invoice.DocumentNr)
}

func TestIssueAndSend(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := invoicing.NewClient(server.URL, "token", 5*time.Second, zap.NewNop())
	err := client.IssueAndSend(context.Background(), 9001)

	require.NoError(t, err)
	assert.Equal(t, []string{"/2.0/kb_invoice/9001/issue", "/2.0/kb_invoice/9001/send"}, paths)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code":401}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := invoicing.NewClient(server.URL, "expired", 5*time.Second, zap.NewNop())
	_, err := client.SearchContactByEmail(context.Background(), "martina@muster-zimmerei.ch")

	assert.ErrorContains(t, err, "status 401")
}
