package sendgrid_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	sendgrid_client "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/pkg/sendgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "SG.test-api-key"
	testFromEmail = "no-reply@bookstore.local"
	testFromName  = "Bookstore"
)

type mailPayload struct {
	Personalizations []struct {
		To         []map[string]string `json:"to"`
		Cc         []map[string]string `json:"cc,omitempty"`
		Bcc        []map[string]string `json:"bcc,omitempty"`
		Subject    string              `json:"subject"`
		CustomArgs map[string]string   `json:"custom_args,omitempty"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// newTestService points a real client at a local server and returns the
// decoded body of the last request it received.
func newTestService(t *testing.T, status int, body string) (sendgrid_client.EmailService, *mailPayload) {
	t.Helper()

	var payload mailPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	svc := sendgrid_client.NewEmailService(testAPIKey, testFromEmail, testFromName)
	svc.GetSendGridClient().Request.BaseURL = server.URL

	return svc, &payload
}

func TestSend_PaymentDecision(t *testing.T) {
	svc, payload := newTestService(t, http.StatusAccepted, "")

	err := svc.Send(t.Context(), &models.EmailNotificationRequest{
		To:          "reader@example.com",
		Subject:     "Pembayaran pesanan ORD-AB12CD34 diterima",
		Content:     "Your payment has been approved.",
		HTMLContent: "<p>Your payment has been approved.</p>",
		Metadata:    map[string]string{"order_code": "ORD-AB12CD34", "payment_status": "success"},
	})
	require.NoError(t, err)

	require.Len(t, payload.Personalizations, 1)
	p := payload.Personalizations[0]
	require.Len(t, p.To, 1)
	assert.Equal(t, "reader@example.com", p.To[0]["email"])
	assert.Equal(t, "Pembayaran pesanan ORD-AB12CD34 diterima", p.Subject)
	assert.Equal(t, "ORD-AB12CD34", p.CustomArgs["order_code"])
	assert.Equal(t, "success", p.CustomArgs["payment_status"])

	assert.Equal(t, testFromEmail, payload.From["email"])
	assert.Equal(t, testFromName, payload.From["name"])

	require.Len(t, payload.Content, 2)
	assert.Equal(t, "text/plain", payload.Content[0].Type)
	assert.Equal(t, "text/html", payload.Content[1].Type)
}

func TestSend_CopyRecipients(t *testing.T) {
	svc, payload := newTestService(t, http.StatusAccepted, "")

	err := svc.Send(t.Context(), &models.EmailNotificationRequest{
		To:      "reader@example.com",
		CC:      []string{"finance@bookstore.local"},
		BCC:     []string{"audit@bookstore.local"},
		Subject: "Pesanan ORD-AB12CD34 dikirim",
		Content: "Your order has shipped.",
	})
	require.NoError(t, err)

	p := payload.Personalizations[0]
	require.Len(t, p.Cc, 1)
	assert.Equal(t, "finance@bookstore.local", p.Cc[0]["email"])
	require.Len(t, p.Bcc, 1)
	assert.Equal(t, "audit@bookstore.local", p.Bcc[0]["email"])
	assert.Empty(t, p.CustomArgs)
	require.Len(t, payload.Content, 1)
}

func TestSend_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"Rejected request", http.StatusBadRequest, `{"errors":[{"message":"Invalid email"}]}`, "status code: 400: {\"errors\""},
		{"Bad key", http.StatusUnauthorized, `{"errors":[{"message":"authorization required"}]}`, "status code: 401"},
		{"Provider down", http.StatusInternalServerError, "", "status code: 500"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, tc.status, tc.body)

			err := svc.Send(t.Context(), &models.EmailNotificationRequest{To: "reader@example.com", Subject: "s", Content: "c"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	svc := sendgrid_client.NewEmailService(testAPIKey, testFromEmail, testFromName)
	svc.GetSendGridClient().Request.BaseURL = server.URL

	err := svc.Send(t.Context(), &models.EmailNotificationRequest{To: "reader@example.com", Subject: "s", Content: "c"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestSend_NotConfigured(t *testing.T) {
	svc := sendgrid_client.NewEmailService("", testFromEmail, testFromName)

	err := svc.Send(t.Context(), &models.EmailNotificationRequest{To: "reader@example.com", Subject: "s", Content: "c"})

	assert.ErrorIs(t, err, sendgrid_client.ErrNotConfigured)
}
