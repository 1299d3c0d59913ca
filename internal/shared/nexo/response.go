package nexo

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ResultSuccess is the only Result value treated as an approval.
const ResultSuccess = "Success"

// ErrMalformedResponse is returned when a payload cannot be decoded into a Response.
var ErrMalformedResponse = errors.New("malformed nexo response")

// Response mirrors the subset of the terminal reply the server inspects.
type Response struct {
	SaleToPOIResponse *SaleToPOIResponse `json:"SaleToPOIResponse,omitempty"`
}

type SaleToPOIResponse struct {
	MessageHeader   *MessageHeader   `json:"MessageHeader,omitempty"`
	PaymentResponse *PaymentResponse `json:"PaymentResponse,omitempty"`
}

type PaymentResponse struct {
	POIData  *POIData `json:"POIData,omitempty"`
	Response *Result  `json:"Response,omitempty"`
}

type POIData struct {
	POITransactionID *POITransactionID `json:"POITransactionID,omitempty"`
}

type POITransactionID struct {
	TransactionID string `json:"TransactionID,omitempty"`
	TimeStamp     string `json:"TimeStamp,omitempty"`
}

type Result struct {
	Result             string `json:"Result"`
	ErrorCondition     string `json:"ErrorCondition,omitempty"`
	AdditionalResponse string `json:"AdditionalResponse,omitempty"`
}

// DecodeBase64Response decodes an SDK result blob. Malformed base64 or JSON yields ErrMalformedResponse.
func DecodeBase64Response(encoded string) (*Response, error) {
	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return DecodeResponse(raw)
}

// DecodeResponse parses a JSON response document.
func DecodeResponse(raw []byte) (*Response, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: payload is not valid utf-8", ErrMalformedResponse)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &resp, nil
}

func decodeBase64(encoded string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, encoded)
	if compact == "" {
		return nil, errors.New("payload is empty")
	}
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err == nil {
		return raw, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(compact); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

// Approved reports whether the terminal returned Result == "Success".
func (r *Response) Approved() bool {
	result := r.result()
	return result != nil && result.Result == ResultSuccess
}

// TransactionID returns the POI transaction id, or an empty string when absent.
func (r *Response) TransactionID() string {
	payment := r.payment()
	if payment == nil || payment.POIData == nil || payment.POIData.POITransactionID == nil {
		return ""
	}
	return payment.POIData.POITransactionID.TransactionID
}

// ResultCode returns the raw Result value.
func (r *Response) ResultCode() string {
	if result := r.result(); result != nil {
		return result.Result
	}
	return ""
}

// ErrorCondition returns the terminal's error condition for declined or failed payments.
func (r *Response) ErrorCondition() string {
	if result := r.result(); result != nil {
		return result.ErrorCondition
	}
	return ""
}

func (r *Response) payment() *PaymentResponse {
	if r == nil || r.SaleToPOIResponse == nil {
		return nil
	}
	return r.SaleToPOIResponse.PaymentResponse
}

func (r *Response) result() *Result {
	payment := r.payment()
	if payment == nil {
		return nil
	}
	return payment.Response
}
