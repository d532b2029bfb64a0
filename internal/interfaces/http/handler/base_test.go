package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listbridge/backend/internal/domain/listing"
	"github.com/listbridge/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDomainErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unmapped product", listing.ErrMappingNotFound, dto.ErrCodeNotFound},
		{"missing source product", listing.ErrSourceProductNotFound, dto.ErrCodeNotFound},
		{"missing offer", listing.ErrOfferNotFound, dto.ErrCodeNotFound},
		{"duplicate mapping", listing.ErrMappingAlreadyExists, dto.ErrCodeAlreadyExists},
		{"already ended", listing.ErrMappingAlreadyEnded, dto.ErrCodeInvalidState},
		{"inactive product", listing.ErrProductNotActive, dto.ErrCodeBusinessRule},
		{"multi-variant product", listing.ErrMultiVariantNotSupported, dto.ErrCodeBusinessRule},
		{"source throttled", listing.ErrSourceRateLimited, dto.ErrCodeRateLimited},
		{"marketplace throttled", listing.ErrMarketplaceRateLimited, dto.ErrCodeRateLimited},
		{"source auth failure", listing.ErrSourceAuthFailed, dto.ErrCodeUpstream},
		{"marketplace request failure", listing.ErrMarketplaceRequestFailed, dto.ErrCodeUpstream},
		{"unknown error", assert.AnError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainErrorCode(tt.err))
		})
	}

	t.Run("wrapped errors classify by sentinel", func(t *testing.T) {
		err := fmt.Errorf("%w: HTTP 502", listing.ErrMarketplaceRequestFailed)
		assert.Equal(t, dto.ErrCodeUpstream, domainErrorCode(err))
	})
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	perform := func(err error) (*httptest.ResponseRecorder, dto.Response) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/test", nil)

		h.HandleDomainError(c, err)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("not found maps to 404 with error text", func(t *testing.T) {
		w, resp := perform(listing.ErrMappingNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, listing.ErrMappingNotFound.Error(), resp.Error.Message)
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		w, resp := perform(listing.ErrMarketplaceRequestFailed)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeUpstream, resp.Error.Code)
	})

	t.Run("unknown errors are not echoed to the client", func(t *testing.T) {
		w, resp := perform(assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("prefers the middleware-set ID", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request, _ = http.NewRequest(http.MethodGet, "/test", nil)
		c.Request.Header.Set("X-Request-ID", "header-id")
		c.Set("request_id", "context-id")

		assert.Equal(t, "context-id", getRequestID(c))
	})

	t.Run("falls back to the request header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request, _ = http.NewRequest(http.MethodGet, "/test", nil)
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "header-id", getRequestID(c))
	})
}
