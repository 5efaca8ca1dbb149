package mpesa

import "encoding/json"

// PayRequest is the body of the payment initiation call.
type PayRequest struct {
	Phone  string `json:"phone"`
	Amount int64  `json:"amount"`
}

// PayResponse is what the service returns on success. Only the Daraja STK
// push fields are decoded; Raw keeps the full body.
type PayResponse struct {
	MerchantRequestID   string          `json:"MerchantRequestID,omitempty"`
	CheckoutRequestID   string          `json:"CheckoutRequestID,omitempty"`
	ResponseCode        string          `json:"ResponseCode,omitempty"`
	ResponseDescription string          `json:"ResponseDescription,omitempty"`
	CustomerMessage     string          `json:"CustomerMessage,omitempty"`
	Raw                 json.RawMessage `json:"-"`
}

// ErrorResponse is the failure body: {"error": "...", "details": {"errorMessage": "..."}}.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Details *ErrorDetails `json:"details,omitempty"`
}

type ErrorDetails struct {
	RequestID    string `json:"requestId,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Message picks the most specific description available.
func (r ErrorResponse) Message() string {
	if r.Details != nil && r.Details.ErrorMessage != "" {
		return r.Details.ErrorMessage
	}
	if r.Error != "" {
		return r.Error
	}
	return UnknownErrorMessage
}
