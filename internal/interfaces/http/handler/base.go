package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/listbridge/backend/internal/domain/listing"
	"github.com/listbridge/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// domainErrorCode classifies a domain error into an API error code
func domainErrorCode(err error) string {
	switch {
	case errors.Is(err, listing.ErrMappingNotFound),
		errors.Is(err, listing.ErrSourceProductNotFound),
		errors.Is(err, listing.ErrOfferNotFound):
		return dto.ErrCodeNotFound

	case errors.Is(err, listing.ErrMappingAlreadyExists):
		return dto.ErrCodeAlreadyExists

	case errors.Is(err, listing.ErrMappingAlreadyEnded):
		return dto.ErrCodeInvalidState

	case errors.Is(err, listing.ErrProductNotActive),
		errors.Is(err, listing.ErrMultiVariantNotSupported),
		errors.Is(err, listing.ErrVariantMissingSKU),
		errors.Is(err, listing.ErrNoAvailableQuantity),
		errors.Is(err, listing.ErrNoImages):
		return dto.ErrCodeBusinessRule

	case errors.Is(err, listing.ErrSourceRateLimited),
		errors.Is(err, listing.ErrMarketplaceRateLimited):
		return dto.ErrCodeRateLimited

	case errors.Is(err, listing.ErrSourceAuthFailed),
		errors.Is(err, listing.ErrSourceRequestFailed),
		errors.Is(err, listing.ErrSourceInvalidResponse),
		errors.Is(err, listing.ErrSourceNotConfigured),
		errors.Is(err, listing.ErrMarketplaceAuthFailed),
		errors.Is(err, listing.ErrMarketplaceRequestFailed),
		errors.Is(err, listing.ErrMarketplaceInvalidResponse),
		errors.Is(err, listing.ErrMarketplaceNotConfigured):
		return dto.ErrCodeUpstream

	default:
		return dto.ErrCodeInternal
	}
}

// HandleDomainError converts a domain error to an HTTP error response
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := domainErrorCode(err)
	message := err.Error()
	if code == dto.ErrCodeInternal {
		message = "An unexpected error occurred"
	}
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}
