package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

// Stage is the position of a register in the device payment flow.
type Stage string

const (
	StageSelectDevice      Stage = "select_device"
	StagePaymentInProgress Stage = "payment_in_progress"
	StagePaymentResult     Stage = "payment_result"
)

var (
	ErrInvalidStage     = errors.New("operation not allowed in the current payment stage")
	ErrNoDeviceSelected = errors.New("no terminal selected")
	ErrNoActivePayment  = errors.New("no payment in progress")
	ErrInvalidAmount    = errors.New("payment amount must be greater than zero")
	// ErrUntraceableApproval marks an approval that cannot be recorded as an order.
	ErrUntraceableApproval = errors.New("terminal approved the payment without a transaction id")
)

// OutcomeKind classifies a finished payment attempt.
type OutcomeKind string

const (
	OutcomeApproved OutcomeKind = "approved"
	OutcomeDeclined OutcomeKind = "declined"
	OutcomeFailed   OutcomeKind = "failed"
)

// Outcome is the normalized result of a payment attempt, whatever way it ended.
type Outcome struct {
	Kind          OutcomeKind
	Success       bool
	TransactionID string
	Response      *nexo.Response
	Error         string
}

// NewOutcome folds a terminal reply and transport error into one Outcome.
// An approval is only a success when it carries a transaction id.
func NewOutcome(resp *nexo.Response, err error) Outcome {
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Error: err.Error()}
	}
	if resp == nil || resp.SaleToPOIResponse == nil {
		return Outcome{Kind: OutcomeFailed, Response: resp, Error: "terminal returned no payment response"}
	}
	if resp.Approved() {
		if strings.TrimSpace(resp.TransactionID()) == "" {
			return Outcome{Kind: OutcomeFailed, Response: resp, Error: ErrUntraceableApproval.Error()}
		}
		return Outcome{Kind: OutcomeApproved, Success: true, TransactionID: resp.TransactionID(), Response: resp}
	}
	outcome := Outcome{Kind: OutcomeDeclined, TransactionID: resp.TransactionID(), Response: resp}
	if condition := resp.ErrorCondition(); condition != "" {
		outcome.Error = condition
	}
	return outcome
}

// Snapshot is a copy of one register's payment flow state.
type Snapshot struct {
	Stage          Stage
	Loading        bool
	Devices        []string
	DiscoveryError string
	SelectedDevice string
	ServiceID      string
	Amount         decimal.Decimal
	Currency       string
	Result         *Outcome
}

// Clone returns a deep copy safe to hand out of the orchestrator lock.
func (s Snapshot) Clone() Snapshot {
	clone := s
	if s.Devices != nil {
		clone.Devices = append([]string{}, s.Devices...)
	}
	if s.Result != nil {
		result := *s.Result
		clone.Result = &result
	}
	return clone
}

// DevicePayment is one payment instruction for a specific terminal.
type DevicePayment struct {
	ServiceID string
	DeviceID  string
	Currency  string
	Amount    decimal.Decimal
}
