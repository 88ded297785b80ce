package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fatoora/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrMalformedProviderResponse):
		return http.StatusUnprocessableEntity, "MALFORMED_PROVIDER_RESPONSE", "extraction provider returned a malformed response"
	case errors.Is(err, domain.ErrInvoiceConverted):
		return http.StatusConflict, "INVOICE_CONVERTED", "invoice has already been converted"
	case errors.Is(err, domain.ErrInvoiceNotReady):
		return http.StatusConflict, "INVOICE_NOT_READY", "invoice must be extracted before conversion"
	case errors.Is(err, domain.ErrNoSupplierMatched):
		return http.StatusUnprocessableEntity, "NO_SUPPLIER_MATCHED", "no supplier matched; select a supplier first"
	case errors.Is(err, domain.ErrNoItems):
		return http.StatusUnprocessableEntity, "NO_ITEMS", "invoice has no line items"
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, "INVALID_STATUS_TRANSITION", "invalid invoice status transition"
	case errors.Is(err, domain.ErrRowOutOfRange):
		return http.StatusNotFound, "ROW_OUT_OF_RANGE", "line item row index out of range"
	case errors.Is(err, domain.ErrDownstreamCreateFailed):
		return http.StatusBadGateway, "PURCHASE_CREATE_FAILED", "purchase invoice creation failed downstream"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error
// response. Unlinked-item gate failures carry the offending rows as
// structured details so a client can drive remediation.
func HandleError(c *gin.Context, err error) {
	var unlinkedErr *domain.UnlinkedItemsError
	if errors.As(err, &unlinkedErr) {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "UNLINKED_ITEMS",
				Message: unlinkedErr.Error(),
				Details: unlinkedErr.Items,
			},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}
