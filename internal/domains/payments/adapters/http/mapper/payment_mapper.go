package mapper

import (
	ordersmapper "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

type SelectDevicePayload struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

// SDKResultPayload is what the tablet posts after the on-device SDK returns.
type SDKResultPayload struct {
	Kind            string `json:"kind" binding:"required"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	EncodedResponse string `json:"response,omitempty"`
	Message         string `json:"message,omitempty"`
}

type SDKAuthenticationPayload struct {
	SetupToken string `json:"setupToken" binding:"required"`
}

type Outcome struct {
	Kind          string         `json:"kind"`
	Success       bool           `json:"success"`
	TransactionID string         `json:"transactionId,omitempty"`
	Error         string         `json:"error,omitempty"`
	Response      *nexo.Response `json:"response,omitempty"`
}

// PaymentState mirrors a register's position in the device payment flow.
type PaymentState struct {
	Stage          string   `json:"stage"`
	Loading        bool     `json:"loading"`
	Devices        []string `json:"devices"`
	DiscoveryError string   `json:"discoveryError,omitempty"`
	SelectedDevice string   `json:"selectedDevice,omitempty"`
	ServiceID      string   `json:"serviceId,omitempty"`
	Amount         string   `json:"amount,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	Result         *Outcome `json:"result,omitempty"`
}

type DismissResult struct {
	Outcome Outcome             `json:"outcome"`
	Order   *ordersmapper.Order `json:"order,omitempty"`
}

type CheckoutResult struct {
	Kind    string              `json:"kind"`
	Outcome Outcome             `json:"outcome"`
	Order   *ordersmapper.Order `json:"order,omitempty"`
}

type SDKSession struct {
	ID              string `json:"id,omitempty"`
	MerchantAccount string `json:"merchantAccount"`
	Store           string `json:"store,omitempty"`
	InstallationID  string `json:"installationId,omitempty"`
	SDKData         string `json:"sdkData"`
}

// ToDomainSDKResult validates the result kind; the remaining fields are checked by the service.
func ToDomainSDKResult(payload SDKResultPayload) (domain.SDKResult, error) {
	kind, err := domain.ParseSDKResultKind(payload.Kind)
	if err != nil {
		return domain.SDKResult{}, err
	}
	return domain.SDKResult{
		Kind:            kind,
		PaymentMethod:   payload.PaymentMethod,
		EncodedResponse: payload.EncodedResponse,
		Message:         payload.Message,
	}, nil
}

func FromDomainOutcome(outcome domain.Outcome) Outcome {
	return Outcome{
		Kind:          string(outcome.Kind),
		Success:       outcome.Success,
		TransactionID: outcome.TransactionID,
		Error:         outcome.Error,
		Response:      outcome.Response,
	}
}

func FromDomainSnapshot(snapshot domain.Snapshot) PaymentState {
	out := PaymentState{
		Stage:          string(snapshot.Stage),
		Loading:        snapshot.Loading,
		Devices:        append([]string{}, snapshot.Devices...),
		DiscoveryError: snapshot.DiscoveryError,
		SelectedDevice: snapshot.SelectedDevice,
		ServiceID:      snapshot.ServiceID,
		Currency:       snapshot.Currency,
	}
	if snapshot.ServiceID != "" {
		out.Amount = snapshot.Amount.StringFixed(2)
	}
	if snapshot.Result != nil {
		result := FromDomainOutcome(*snapshot.Result)
		out.Result = &result
	}
	return out
}

func FromDismissResult(result *ports.DismissResult) DismissResult {
	if result == nil {
		return DismissResult{}
	}
	out := DismissResult{Outcome: FromDomainOutcome(result.Outcome)}
	if result.Order != nil {
		order := ordersmapper.FromDomainOrder(result.Order)
		out.Order = &order
	}
	return out
}

func FromCheckoutResult(result *ports.CheckoutResult) CheckoutResult {
	if result == nil {
		return CheckoutResult{}
	}
	out := CheckoutResult{Kind: string(result.Kind), Outcome: FromDomainOutcome(result.Outcome)}
	if result.Order != nil {
		order := ordersmapper.FromDomainOrder(result.Order)
		out.Order = &order
	}
	return out
}

func FromDomainSDKSession(session *domain.SDKSession) SDKSession {
	if session == nil {
		return SDKSession{}
	}
	return SDKSession{
		ID:              session.ID,
		MerchantAccount: session.MerchantAccount,
		Store:           session.Store,
		InstallationID:  session.InstallationID,
		SDKData:         session.SDKData,
	}
}
