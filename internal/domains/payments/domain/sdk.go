package domain

import (
	"errors"
	"strings"
)

// SDKResultKind tags the result variants reported by the on-device payment SDK.
type SDKResultKind string

const (
	SDKResultSuccess           SDKResultKind = "success"
	SDKResultError             SDKResultKind = "error"
	SDKResultCancelled         SDKResultKind = "cancelled"
	SDKResultMissingPermission SDKResultKind = "missing_permission"
)

var (
	ErrUnknownSDKResult     = errors.New("unknown sdk result kind")
	ErrUnsupportedSDKMethod = errors.New("unsupported sdk payment method")
	ErrMissingSDKResultBlob = errors.New("sdk success result carries no payment response")
	ErrEmptySetupToken      = errors.New("sdk setup token must not be empty")
)

func ParseSDKResultKind(raw string) (SDKResultKind, error) {
	switch kind := SDKResultKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case SDKResultSuccess, SDKResultError, SDKResultCancelled, SDKResultMissingPermission:
		return kind, nil
	default:
		return "", ErrUnknownSDKResult
	}
}

// SDKResult is what the tablet reports once the SDK flow returns.
type SDKResult struct {
	Kind          SDKResultKind
	PaymentMethod string
	// EncodedResponse is the base64 Nexo response, only present on success.
	EncodedResponse string
	Message         string
}

// SDKSession is the session material the SDK needs to start a payment.
type SDKSession struct {
	ID              string
	MerchantAccount string
	Store           string
	InstallationID  string
	SDKData         string
}
