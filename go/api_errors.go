package posserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-pos-server/internal/clients/http/terminal"
	cartapp "github.com/Apurer/go-gin-pos-server/internal/domains/cart/application"
	menuapp "github.com/Apurer/go-gin-pos-server/internal/domains/menu/application"
	menuports "github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	paymentsapp "github.com/Apurer/go-gin-pos-server/internal/domains/payments/application"
	paymentsdomain "github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	settingsapp "github.com/Apurer/go-gin-pos-server/internal/domains/settings/application"
	settingsports "github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

var problems = apierrors.NewResponder("", mapDomainError)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

// respondError is used for transport-level failures such as unparsable bodies.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	respondProblem(c, apierrors.ForStatus(status, err))
}

// respondServiceError translates application errors from any bounded context.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func mapDomainError(err error) (apierrors.ProblemDetail, bool) {
	var statusErr *terminal.StatusError
	switch {
	case errors.Is(err, menuports.ErrNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, cartapp.ErrLineNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, menuapp.ErrInvalidInput),
		errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, paymentsapp.ErrInvalidInput),
		errors.Is(err, settingsapp.ErrInvalidInput),
		errors.Is(err, paymentsdomain.ErrUnknownSDKResult):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, cartapp.ErrConflict),
		errors.Is(err, paymentsapp.ErrConflict),
		errors.Is(err, ordersports.ErrDuplicateTransaction):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrPreconditionFailed),
		errors.Is(err, cartapp.ErrLimitExceeded):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, settingsports.ErrNotConfigured):
		return apierrors.ErrPreconditionFailed.WithDetail(err.Error()), true
	case errors.Is(err, context.DeadlineExceeded):
		return apierrors.ErrGatewayTimeout.WithDetail(err.Error()), true
	case errors.As(err, &statusErr):
		return apierrors.ErrBadGateway.WithDetail(err.Error()).WithExtension("upstreamStatus", statusErr.StatusCode), true
	case errors.Is(err, nexo.ErrMalformedResponse):
		return apierrors.ErrBadGateway.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
