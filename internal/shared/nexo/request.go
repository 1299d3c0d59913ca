// Package nexo builds and parses the Nexo JSON messages exchanged with cloud-connected payment terminals.
package nexo

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProtocolVersion     = "3.0"
	MessageClassService = "Service"
	MessageTypeRequest  = "Request"
	CategoryPayment     = "Payment"
	CategoryAbort       = "Abort"
	AbortReasonMerchant = "MerchantAbort"

	// TimestampLayout renders UTC timestamps with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	saleToAcquirerPrefix = "applicationInfo.merchantApplication.name="
)

var (
	ErrMissingPOIID     = errors.New("poi id is required")
	ErrMissingServiceID = errors.New("service id is required")
	ErrInvalidCurrency  = errors.New("currency must be a three letter ISO code")
	ErrInvalidAmount    = errors.New("requested amount must be greater than zero")
)

// Request is the outer envelope posted to the terminal sync endpoint.
type Request struct {
	SaleToPOIRequest SaleToPOIRequest `json:"SaleToPOIRequest"`
}

type SaleToPOIRequest struct {
	MessageHeader  MessageHeader   `json:"MessageHeader"`
	PaymentRequest *PaymentRequest `json:"PaymentRequest,omitempty"`
	AbortRequest   *AbortRequest   `json:"AbortRequest,omitempty"`
}

type MessageHeader struct {
	ProtocolVersion string `json:"ProtocolVersion,omitempty"`
	MessageClass    string `json:"MessageClass,omitempty"`
	MessageCategory string `json:"MessageCategory,omitempty"`
	MessageType     string `json:"MessageType,omitempty"`
	ServiceID       string `json:"ServiceID,omitempty"`
	SaleID          string `json:"SaleID,omitempty"`
	POIID           string `json:"POIID,omitempty"`
}

type PaymentRequest struct {
	SaleData           SaleData           `json:"SaleData"`
	PaymentTransaction PaymentTransaction `json:"PaymentTransaction"`
}

type SaleData struct {
	SaleToAcquirerData string            `json:"SaleToAcquirerData,omitempty"`
	SaleTransactionID  SaleTransactionID `json:"SaleTransactionID"`
}

type SaleTransactionID struct {
	TransactionID string `json:"TransactionID"`
	TimeStamp     string `json:"TimeStamp"`
}

type PaymentTransaction struct {
	AmountsReq AmountsReq `json:"AmountsReq"`
}

// AmountsReq carries the amount as a JSON number, never a quoted string.
type AmountsReq struct {
	Currency        string      `json:"Currency"`
	RequestedAmount json.Number `json:"RequestedAmount"`
}

type AbortRequest struct {
	AbortReason      string           `json:"AbortReason"`
	MessageReference MessageReference `json:"MessageReference"`
}

type MessageReference struct {
	MessageCategory string `json:"MessageCategory"`
	SaleID          string `json:"SaleID"`
	ServiceID       string `json:"ServiceID"`
}

// PaymentInput describes a single device payment.
type PaymentInput struct {
	ServiceID string
	POIID     string
	Currency  string
	Amount    decimal.Decimal
}

// Encoder constructs request envelopes. It has no side effects beyond its clock and id sources.
type Encoder struct {
	saleID           string
	now              func() time.Time
	newTransactionID func() string
	newServiceID     func() string
}

type EncoderOption func(*Encoder)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) EncoderOption {
	return func(e *Encoder) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTransactionIDs overrides the SaleTransactionID generator.
func WithTransactionIDs(fn func() string) EncoderOption {
	return func(e *Encoder) {
		if fn != nil {
			e.newTransactionID = fn
		}
	}
}

// WithServiceIDs overrides the generator used for abort message service ids.
func WithServiceIDs(fn func() string) EncoderOption {
	return func(e *Encoder) {
		if fn != nil {
			e.newServiceID = fn
		}
	}
}

func NewEncoder(saleID string, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		saleID:           strings.TrimSpace(saleID),
		now:              time.Now,
		newTransactionID: func() string { return uuid.NewString() },
		newServiceID:     NewServiceID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// SaleID returns the sale system identifier stamped on every message.
func (e *Encoder) SaleID() string {
	return e.saleID
}

// NewPaymentRequest builds a payment request for the given terminal.
func (e *Encoder) NewPaymentRequest(input PaymentInput) (Request, error) {
	if strings.TrimSpace(input.ServiceID) == "" {
		return Request{}, ErrMissingServiceID
	}
	if strings.TrimSpace(input.POIID) == "" {
		return Request{}, ErrMissingPOIID
	}
	if len(input.Currency) != 3 {
		return Request{}, ErrInvalidCurrency
	}
	if !input.Amount.IsPositive() {
		return Request{}, ErrInvalidAmount
	}
	return Request{
		SaleToPOIRequest: SaleToPOIRequest{
			MessageHeader: e.header(CategoryPayment, input.ServiceID, input.POIID),
			PaymentRequest: &PaymentRequest{
				SaleData: SaleData{
					SaleToAcquirerData: saleToAcquirerPrefix + e.saleID,
					SaleTransactionID: SaleTransactionID{
						TransactionID: e.newTransactionID(),
						TimeStamp:     e.now().UTC().Format(TimestampLayout),
					},
				},
				PaymentTransaction: PaymentTransaction{
					AmountsReq: AmountsReq{
						Currency:        input.Currency,
						RequestedAmount: json.Number(input.Amount.String()),
					},
				},
			},
		},
	}, nil
}

// NewAbortRequest builds a merchant abort referencing an earlier payment service id.
// The abort message itself is issued under a fresh service id.
func (e *Encoder) NewAbortRequest(originalServiceID, poiID string) (Request, error) {
	if strings.TrimSpace(originalServiceID) == "" {
		return Request{}, ErrMissingServiceID
	}
	if strings.TrimSpace(poiID) == "" {
		return Request{}, ErrMissingPOIID
	}
	return Request{
		SaleToPOIRequest: SaleToPOIRequest{
			MessageHeader: e.header(CategoryAbort, e.newServiceID(), poiID),
			AbortRequest: &AbortRequest{
				AbortReason: AbortReasonMerchant,
				MessageReference: MessageReference{
					MessageCategory: CategoryPayment,
					SaleID:          e.saleID,
					ServiceID:       originalServiceID,
				},
			},
		},
	}, nil
}

func (e *Encoder) header(category, serviceID, poiID string) MessageHeader {
	return MessageHeader{
		ProtocolVersion: ProtocolVersion,
		MessageClass:    MessageClassService,
		MessageCategory: category,
		MessageType:     MessageTypeRequest,
		ServiceID:       serviceID,
		SaleID:          e.saleID,
		POIID:           poiID,
	}
}

// Encode serialises a request envelope to its wire form.
func Encode(req Request) ([]byte, error) {
	return json.Marshal(req)
}
