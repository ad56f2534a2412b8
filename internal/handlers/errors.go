package handlers

import (
	"errors"
	"net/http"
	"strings"

	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first match wins.
var serviceErrorMappings = []errorMapping{
	{services.ErrFeatureDisabled, http.StatusForbidden, utils.ErrCodeFeatureDisabled},
	{services.ErrEmptyCart, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidItem, http.StatusBadRequest, utils.ErrCodeInvalidItem},
	{services.ErrItemNotFound, http.StatusBadRequest, utils.ErrCodeItemNotFound},
	{services.ErrInsufficientCash, http.StatusBadRequest, utils.ErrCodeInsufficientCash},
	{services.ErrInvalidPayment, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidOrderStatus, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidPrepStatus, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidItemIndex, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidUnitIndex, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrBookingValidation, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidBookingStatus, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidImage, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidInput, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrWebhookInvalid, http.StatusBadRequest, utils.ErrCodeWebhookInvalid},
	{payments.ErrMissingSource, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{payments.ErrNotSupported, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrInvalidAdminKey, http.StatusUnauthorized, utils.ErrCodeUnauthorized},
	{services.ErrOrderNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrBookingNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrImageNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrUnknownContentKey, http.StatusNotFound, utils.ErrCodeNotFound},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// toAPIError maps service errors onto responses. Client errors echo the
// error text; server errors use fallback and keep the cause in Details.
func toAPIError(err error, fallback string) *utils.APIError {
	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.target) {
			return utils.NewAPIError(m.status, m.code, capitalize(err.Error()), err.Error())
		}
	}

	var provErr *payments.ProviderError
	switch {
	case errors.As(err, &provErr):
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeProviderError, provErr.Message, err.Error())
	case errors.Is(err, services.ErrMenuUnavailable):
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Menu not available", err.Error())
	case errors.Is(err, services.ErrPersistence):
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodePersistenceError, fallback, err.Error())
	}
	return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, err.Error())
}

func respondServiceError(c *gin.Context, err error, fallback string) {
	apiErr := toAPIError(err, fallback)
	fields := map[string]interface{}{"path": c.FullPath(), "status": apiErr.StatusCode}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		utils.LogError(err, fallback, fields)
	} else {
		fields["error"] = err.Error()
		utils.LogWarn(fallback, fields)
	}
	utils.RespondWithError(c, apiErr)
}

func respondInvalidJSON(c *gin.Context, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid JSON", err.Error()))
}

// requestOrigin is the scheme+host the client used, honouring proxies.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := c.Request.Host
	if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

// detailMessage drops the sentinel prefix from a wrapped error.
func detailMessage(err, sentinel error) string {
	return capitalize(strings.TrimPrefix(err.Error(), sentinel.Error()+": "))
}
