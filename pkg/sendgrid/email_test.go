package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/furstore/fur-store-backend/internal/models"
	sendgridclient "github.com/furstore/fur-store-backend/pkg/sendgrid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	service := sendgridclient.NewEmailService("test-api-key", "sender@example.com", "Test Sender")
	assert.NotNil(t, service)
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Cc      []map[string]string `json:"cc,omitempty"`
		Bcc     []map[string]string `json:"bcc,omitempty"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

type clientAccessor interface {
	GetSendGridClient() *sendgrid.Client
}

func TestEmailService_Send(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "orders@fur-store.example"
	fromName := "Fur Store"
	ctx := t.Context()

	var lastRequestPayload sendgridV3Payload

	var handlerFunc http.HandlerFunc

	startMockServer := func() *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusInternalServerError)

				return
			}

			defer r.Body.Close()

			if err := json.Unmarshal(bodyBytes, &lastRequestPayload); err != nil {
				http.Error(w, "Failed to unmarshal request body", http.StatusBadRequest)

				return
			}

			handlerFunc(w, r)
		}))
	}

	tests := []struct {
		name          string
		req           *models.EmailNotificationRequest
		handler       http.HandlerFunc
		expectedError string
		checkPayload  func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - Order Confirmation",
			req: &models.EmailNotificationRequest{
				Recipient: "customer@example.com",
				Subject:   "Your order is confirmed",
				Content:   "Mink coat x2",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusAccepted)
			},
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "customer@example.com", pers.To[0]["email"])
				assert.Empty(t, pers.Cc)
				assert.Empty(t, pers.Bcc)
				assert.Equal(t, "Your order is confirmed", pers.Subject)

				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])

				require.Len(t, p.Content, 1)
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "Mink coat x2", p.Content[0].Value)
			},
		},
		{
			name: "Success - With CC and BCC",
			req: &models.EmailNotificationRequest{
				Recipient: "customer@example.com",
				CC:        []string{"cc1@example.com", "cc2@example.com"},
				BCC:       []string{"bcc1@example.com"},
				Subject:   "Receipt",
				Content:   "Receipt attached",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.Cc, 2)
				assert.Equal(t, "cc1@example.com", pers.Cc[0]["email"])
				require.Len(t, pers.Bcc, 1)
				assert.Equal(t, "bcc1@example.com", pers.Bcc[0]["email"])
			},
		},
		{
			name: "Failure - SendGrid API Error (4xx)",
			req: &models.EmailNotificationRequest{
				Recipient: "bad@example.com",
				Subject:   "Receipt",
				Content:   "Content",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errors": [{"message": "Invalid email"}]}`))
			},
			expectedError: "failed to send email, status code: 400",
		},
		{
			name: "Failure - SendGrid API Error (5xx)",
			req: &models.EmailNotificationRequest{
				Recipient: "customer@example.com",
				Subject:   "Receipt",
				Content:   "Content",
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lastRequestPayload = sendgridV3Payload{}
			handlerFunc = tc.handler

			mockServer := startMockServer()
			defer mockServer.Close()

			service := sendgridclient.NewEmailService(apiKey, fromEmail, fromName)

			sgClient := service.(clientAccessor).GetSendGridClient()
			sgClient.Request.BaseURL = mockServer.URL

			// Act
			err := service.Send(ctx, tc.req)

			// Assert
			if tc.expectedError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, lastRequestPayload)
			}
		})
	}

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		mockServer := startMockServer()

		service := sendgridclient.NewEmailService(apiKey, fromEmail, fromName)
		sgClient := service.(clientAccessor).GetSendGridClient()
		sgClient.Request.BaseURL = mockServer.URL
		mockServer.Close()

		req := &models.EmailNotificationRequest{
			Recipient: "customer@example.com",
			Subject:   "Receipt",
			Content:   "Content",
		}

		// Act
		err := service.Send(ctx, req)

		// Assert
		assert.Error(t, err)
	})
}
