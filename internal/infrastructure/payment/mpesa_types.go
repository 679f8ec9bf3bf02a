package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Daraja API paths
const (
	mpesaOAuthPath    = "/oauth/v1/generate?grant_type=client_credentials"
	mpesaStkPushPath  = "/mpesa/stkpush/v1/processrequest"
	mpesaStkQueryPath = "/mpesa/stkpushquery/v1/query"

	mpesaTimestampLayout = "20060102150405"
)

// StkPushRequest is a request to prompt a customer's phone for payment
type StkPushRequest struct {
	Amount           decimal.Decimal
	PhoneNumber      string
	AccountReference string
	Description      string
}

// StkPushResponse is the synchronous acknowledgement of an STK push
type StkPushResponse struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResponseCode      string
	CustomerMessage   string
	RawResponse       string
}

// Accepted reports whether Safaricom accepted the push for processing
func (r *StkPushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

// StkQueryResponse is the result of querying an STK push by checkout request ID
type StkQueryResponse struct {
	CheckoutRequestID string
	ResultCode        string
	ResultDescription string
	RawResponse       string
}

// Paid reports whether the customer completed the payment
func (r *StkQueryResponse) Paid() bool {
	return r.ResultCode == "0"
}

// StkCallback is the asynchronous payment result delivered to the callback URL
type StkCallback struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDescription string
	Amount            decimal.Decimal
	ReceiptNumber     string
	PhoneNumber       string
	TransactionDate   *time.Time
	RawPayload        string
}

// Successful reports whether the callback describes a completed payment
func (c *StkCallback) Successful() bool {
	return c.ResultCode == 0
}

type mpesaOAuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type mpesaStkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type mpesaStkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

type mpesaStkQueryPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type mpesaStkQueryResponse struct {
	ResponseCode      string `json:"ResponseCode"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        string `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	ErrorCode         string `json:"errorCode"`
	ErrorMessage      string `json:"errorMessage"`
}

// mpesaCallbackEnvelope mirrors the JSON Safaricom posts to the callback URL
type mpesaCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}
