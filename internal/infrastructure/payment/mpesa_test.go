package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/infrastructure/config"
)

func newTestGateway(baseURL string) *MpesaGateway {
	return NewMpesaGateway(config.MpesaConfig{
		Enabled:          true,
		BaseURL:          baseURL,
		ConsumerKey:      "key",
		ConsumerSecret:   "secret",
		ShortCode:        "174379",
		Passkey:          "passkey",
		CallbackURL:      "https://example.com/api/v1/payments/mpesa/callback",
		TransactionType:  "CustomerPayBillOnline",
		AccountRefMaxLen: 12,
	}, zap.NewNop())
}

func TestSTKPush(t *testing.T) {
	var pushPayload mpesaStkPushPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)
			json.NewEncoder(w).Encode(mpesaOAuthResponse{AccessToken: "token-1", ExpiresIn: "3599"})
		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pushPayload))
			json.NewEncoder(w).Encode(mpesaStkPushResponse{
				MerchantRequestID: "29115-34620561-1",
				CheckoutRequestID: "ws_CO_191220191020363925",
				ResponseCode:      "0",
				CustomerMessage:   "Success. Request accepted for processing",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	resp, err := gw.STKPush(context.Background(), StkPushRequest{
		Amount:           decimal.RequireFromString("231.50"),
		PhoneNumber:      "0712345678",
		AccountReference: "SAL-2026-000042",
		Description:      "sale SAL-2026-000042",
	})
	require.NoError(t, err)
	assert.True(t, resp.Accepted())
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)

	// Whole shillings, rounded up
	assert.Equal(t, "232", pushPayload.Amount)
	assert.Equal(t, "254712345678", pushPayload.PhoneNumber)
	assert.Equal(t, "254712345678", pushPayload.PartyA)
	// Truncated to the configured max length
	assert.Equal(t, "SAL-2026-000", pushPayload.AccountReference)

	decoded, err := base64.StdEncoding.DecodeString(pushPayload.Password)
	require.NoError(t, err)
	assert.Equal(t, "174379passkey"+pushPayload.Timestamp, string(decoded))
}

func TestSTKPushRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(mpesaOAuthResponse{AccessToken: "token-1", ExpiresIn: "3599"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(mpesaStkPushResponse{
			ErrorCode:    "500.001.1001",
			ErrorMessage: "Unable to lock subscriber",
		})
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	_, err := gw.STKPush(context.Background(), StkPushRequest{
		Amount:      decimal.NewFromInt(100),
		PhoneNumber: "254712345678",
	})
	assert.ErrorIs(t, err, ErrMpesaRequestRejected)
}

func TestSTKPushDisabled(t *testing.T) {
	gw := NewMpesaGateway(config.MpesaConfig{Enabled: false}, zap.NewNop())
	_, err := gw.STKPush(context.Background(), StkPushRequest{
		Amount:      decimal.NewFromInt(100),
		PhoneNumber: "254712345678",
	})
	assert.ErrorIs(t, err, ErrMpesaDisabled)
}

func TestTokenReuse(t *testing.T) {
	tokenCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			tokenCalls++
			json.NewEncoder(w).Encode(mpesaOAuthResponse{AccessToken: "token-1", ExpiresIn: "3599"})
		default:
			json.NewEncoder(w).Encode(mpesaStkQueryResponse{
				ResponseCode:      "0",
				CheckoutRequestID: "ws_CO_1",
				ResultCode:        "0",
				ResultDesc:        "The service request is processed successfully.",
			})
		}
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	for i := 0; i < 3; i++ {
		resp, err := gw.QueryStatus(context.Background(), "ws_CO_1")
		require.NoError(t, err)
		assert.True(t, resp.Paid())
	}
	assert.Equal(t, 1, tokenCalls)
}

func TestNormalizeMsisdn(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0712345678", "254712345678", false},
		{"+254712345678", "254712345678", false},
		{"254712345678", "254712345678", false},
		{"712345678", "254712345678", false},
		{"0110123456", "254110123456", false},
		{"0712 345 678", "254712345678", false},
		{"12345", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeMsisdn(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCallbackSuccess(t *testing.T) {
	payload := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 232.00},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20260815143022},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`)

	cb, err := ParseCallback(payload)
	require.NoError(t, err)
	assert.True(t, cb.Successful())
	assert.Equal(t, "ws_CO_191220191020363925", cb.CheckoutRequestID)
	assert.True(t, cb.Amount.Equal(decimal.NewFromInt(232)))
	assert.Equal(t, "NLJ7RT61SV", cb.ReceiptNumber)
	assert.Equal(t, "254712345678", cb.PhoneNumber)
	require.NotNil(t, cb.TransactionDate)
	assert.Equal(t, 2026, cb.TransactionDate.Year())
	assert.Equal(t, time.August, cb.TransactionDate.Month())
}

func TestParseCallbackCancelled(t *testing.T) {
	payload := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user"
			}
		}
	}`)

	cb, err := ParseCallback(payload)
	require.NoError(t, err)
	assert.False(t, cb.Successful())
	assert.Empty(t, cb.ReceiptNumber)
}

func TestParseCallbackInvalid(t *testing.T) {
	_, err := ParseCallback([]byte(`{"Body": {}}`))
	assert.ErrorIs(t, err, ErrMpesaInvalidCallback)

	_, err = ParseCallback([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMpesaInvalidCallback)
}
