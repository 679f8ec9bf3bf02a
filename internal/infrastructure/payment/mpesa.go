package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrMpesaDisabled        = errors.New("mpesa: gateway is not enabled")
	ErrMpesaUnavailable     = errors.New("mpesa: gateway unavailable")
	ErrMpesaRequestRejected = errors.New("mpesa: request rejected")
	ErrMpesaInvalidPhone    = errors.New("mpesa: invalid phone number")
	ErrMpesaInvalidCallback = errors.New("mpesa: invalid callback payload")
)

// MpesaGateway drives Safaricom's Daraja STK push API. A push prompts the
// customer's phone for a PIN; the payment result arrives asynchronously on
// the configured callback URL.
type MpesaGateway struct {
	config     config.MpesaConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewMpesaGateway creates a new M-Pesa gateway
func NewMpesaGateway(cfg config.MpesaConfig, logger *zap.Logger) *MpesaGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MpesaGateway{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("mpesa"),
	}
}

// Enabled reports whether the gateway is configured for use
func (g *MpesaGateway) Enabled() bool {
	return g.config.Enabled
}

// STKPush initiates a payment prompt on the customer's phone
func (g *MpesaGateway) STKPush(ctx context.Context, req StkPushRequest) (*StkPushResponse, error) {
	if !g.config.Enabled {
		return nil, ErrMpesaDisabled
	}

	msisdn, err := NormalizeMsisdn(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	token, err := g.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format(mpesaTimestampLayout)
	payload := mpesaStkPushPayload{
		BusinessShortCode: g.config.ShortCode,
		Password:          g.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   g.config.TransactionType,
		// Daraja only accepts whole shillings
		Amount:           req.Amount.Ceil().StringFixed(0),
		PartyA:           msisdn,
		PartyB:           g.config.ShortCode,
		PhoneNumber:      msisdn,
		CallBackURL:      g.config.CallbackURL,
		AccountReference: g.accountReference(req.AccountReference),
		TransactionDesc:  req.Description,
	}

	respBody, err := g.doJSON(ctx, mpesaStkPushPath, token, payload)
	if err != nil {
		return nil, err
	}

	var pushResp mpesaStkPushResponse
	if err := json.Unmarshal(respBody, &pushResp); err != nil {
		return nil, fmt.Errorf("mpesa: failed to parse response: %w", err)
	}
	if pushResp.ErrorCode != "" {
		return nil, fmt.Errorf("%w: %s - %s", ErrMpesaRequestRejected,
			pushResp.ErrorCode, pushResp.ErrorMessage)
	}

	g.logger.Info("stk push accepted",
		zap.String("checkout_request_id", pushResp.CheckoutRequestID),
		zap.String("account_reference", payload.AccountReference))

	return &StkPushResponse{
		MerchantRequestID: pushResp.MerchantRequestID,
		CheckoutRequestID: pushResp.CheckoutRequestID,
		ResponseCode:      pushResp.ResponseCode,
		CustomerMessage:   pushResp.CustomerMessage,
		RawResponse:       string(respBody),
	}, nil
}

// QueryStatus queries the result of a previously initiated STK push
func (g *MpesaGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*StkQueryResponse, error) {
	if !g.config.Enabled {
		return nil, ErrMpesaDisabled
	}

	token, err := g.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format(mpesaTimestampLayout)
	payload := mpesaStkQueryPayload{
		BusinessShortCode: g.config.ShortCode,
		Password:          g.password(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	respBody, err := g.doJSON(ctx, mpesaStkQueryPath, token, payload)
	if err != nil {
		return nil, err
	}

	var queryResp mpesaStkQueryResponse
	if err := json.Unmarshal(respBody, &queryResp); err != nil {
		return nil, fmt.Errorf("mpesa: failed to parse response: %w", err)
	}
	if queryResp.ErrorCode != "" {
		return nil, fmt.Errorf("%w: %s - %s", ErrMpesaRequestRejected,
			queryResp.ErrorCode, queryResp.ErrorMessage)
	}

	return &StkQueryResponse{
		CheckoutRequestID: queryResp.CheckoutRequestID,
		ResultCode:        queryResp.ResultCode,
		ResultDescription: queryResp.ResultDesc,
		RawResponse:       string(respBody),
	}, nil
}

// ParseCallback parses the asynchronous payment result posted by Safaricom
func ParseCallback(payload []byte) (*StkCallback, error) {
	var envelope mpesaCallbackEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMpesaInvalidCallback, err)
	}

	cb := envelope.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, ErrMpesaInvalidCallback
	}

	result := &StkCallback{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDescription: cb.ResultDesc,
		RawPayload:        string(payload),
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			switch v := item.Value.(type) {
			case float64:
				result.Amount = decimal.NewFromFloat(v)
			case string:
				if amount, err := decimal.NewFromString(v); err == nil {
					result.Amount = amount
				}
			}
		case "MpesaReceiptNumber":
			if v, ok := item.Value.(string); ok {
				result.ReceiptNumber = v
			}
		case "PhoneNumber":
			switch v := item.Value.(type) {
			case float64:
				result.PhoneNumber = strconv.FormatInt(int64(v), 10)
			case string:
				result.PhoneNumber = v
			}
		case "TransactionDate":
			// Sent as numeric YYYYMMDDHHMMSS in Nairobi time
			var raw string
			switch v := item.Value.(type) {
			case float64:
				raw = strconv.FormatInt(int64(v), 10)
			case string:
				raw = v
			}
			if t, err := time.ParseInLocation(mpesaTimestampLayout, raw, nairobiLocation()); err == nil {
				result.TransactionDate = &t
			}
		}
	}

	return result, nil
}

// NormalizeMsisdn converts Kenyan phone number formats to 2547XXXXXXXX
func NormalizeMsisdn(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.TrimPrefix(strings.TrimSpace(phone), "+"))

	switch {
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "254"):
		return cleaned, nil
	case len(cleaned) == 10 && (strings.HasPrefix(cleaned, "07") || strings.HasPrefix(cleaned, "01")):
		return "254" + cleaned[1:], nil
	case len(cleaned) == 9 && (strings.HasPrefix(cleaned, "7") || strings.HasPrefix(cleaned, "1")):
		return "254" + cleaned, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMpesaInvalidPhone, phone)
	}
}

// password builds the Lipa Na M-Pesa password for a given timestamp
func (g *MpesaGateway) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(g.config.ShortCode + g.config.Passkey + timestamp))
}

func (g *MpesaGateway) accountReference(ref string) string {
	max := g.config.AccountRefMaxLen
	if max <= 0 {
		max = 12
	}
	if len(ref) > max {
		return ref[:max]
	}
	return ref
}

// getAccessToken returns a cached OAuth token, fetching a new one when expired
func (g *MpesaGateway) getAccessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.config.BaseURL+mpesaOAuthPath, nil)
	if err != nil {
		return "", fmt.Errorf("mpesa: failed to create token request: %w", err)
	}
	req.SetBasicAuth(g.config.ConsumerKey, g.config.ConsumerSecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMpesaUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("mpesa: failed to read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: token request returned HTTP %d", ErrMpesaRequestRejected, resp.StatusCode)
	}

	var tokenResp mpesaOAuthResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("mpesa: failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrMpesaRequestRejected)
	}

	expiresIn, err := strconv.Atoi(tokenResp.ExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 3600
	}

	g.accessToken = tokenResp.AccessToken
	// Refresh a little early to avoid racing the expiry
	g.tokenExpiry = time.Now().Add(time.Duration(expiresIn-30) * time.Second)
	return g.accessToken, nil
}

func (g *MpesaGateway) doJSON(ctx context.Context, path, token string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mpesa: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mpesa: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMpesaUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mpesa: failed to read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrMpesaUnavailable, resp.StatusCode)
	}

	return respBody, nil
}

func nairobiLocation() *time.Location {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}
