package server

import (
	"errors"
	"net/http"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	disputedomain "github.com/Pexry/pexry2-sub001/internal/dispute/domain"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	productdomain "github.com/Pexry/pexry2-sub001/internal/product/domain"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	walletdomain "github.com/Pexry/pexry2-sub001/internal/wallet/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code }

func newValidationError(field, code, message string) error {
	return &apiError{
		Status:  http.StatusUnprocessableEntity,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

func invalidRequestError() error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "invalid request body",
	}
}

// AbortWithError maps domain sentinels onto HTTP statuses. Every
// handler funnels its failures through here so the taxonomy stays in
// one place.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
			"code":    "internal_error",
			"message": "internal error",
		}})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    err.Error(),
		"message": err.Error(),
	}})
}

func statusForError(err error) int {
	switch {
	case isNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, agentdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case isForbidden(err):
		return http.StatusForbidden
	case isConflict(err):
		return http.StatusConflict
	case isValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, tenantdomain.ErrNotFound) ||
		errors.Is(err, productdomain.ErrNotFound) ||
		errors.Is(err, orderdomain.ErrNotFound) ||
		errors.Is(err, disputedomain.ErrNotFound) ||
		errors.Is(err, notificationdomain.ErrNotFound) ||
		errors.Is(err, agentdomain.ErrNotFound) ||
		errors.Is(err, walletdomain.ErrNotFound)
}

func isForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, productdomain.ErrForbidden) ||
		errors.Is(err, orderdomain.ErrForbidden) ||
		errors.Is(err, disputedomain.ErrForbidden)
}

func isConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, tenantdomain.ErrSlugTaken) ||
		errors.Is(err, agentdomain.ErrEmailTaken) ||
		errors.Is(err, disputedomain.ErrClosed) ||
		errors.Is(err, disputedomain.ErrInvalidTransition) ||
		errors.Is(err, orderdomain.ErrNotPaid) ||
		errors.Is(err, walletdomain.ErrNotPending)
}

func isValidation(err error) bool {
	return errors.Is(err, tenantdomain.ErrInvalidSlug) ||
		errors.Is(err, tenantdomain.ErrInvalidName) ||
		errors.Is(err, tenantdomain.ErrInvalidOwner) ||
		errors.Is(err, productdomain.ErrInvalidName) ||
		errors.Is(err, productdomain.ErrInvalidPrice) ||
		errors.Is(err, orderdomain.ErrInvalidRequest) ||
		errors.Is(err, disputedomain.ErrInvalidRequest) ||
		errors.Is(err, notificationdomain.ErrInvalidRequest) ||
		errors.Is(err, agentdomain.ErrInvalidRequest) ||
		errors.Is(err, walletdomain.ErrInvalidRequest) ||
		errors.Is(err, walletdomain.ErrInsufficientBalance)
}
