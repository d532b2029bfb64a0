package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	listingapp "github.com/listbridge/backend/internal/application/listing"
	"github.com/listbridge/backend/internal/domain/listing"
	"github.com/listbridge/backend/internal/infrastructure/logger"
	"github.com/listbridge/backend/internal/interfaces/http/dto"
)

// defaultLogLimit caps the sync log page when no limit is given
const defaultLogLimit = 50

// maxLogLimit is the upper bound on a sync log page
const maxLogLimit = 200

// SyncHandler handles listing sync API endpoints
type SyncHandler struct {
	BaseHandler
	service  *listingapp.SyncService
	mappings listing.MappingRepository
	logs     listing.SyncLogReader
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *listingapp.SyncService, mappings listing.MappingRepository, logs listing.SyncLogReader) *SyncHandler {
	return &SyncHandler{
		service:  service,
		mappings: mappings,
		logs:     logs,
	}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("", h.SyncProducts)
		sync.POST("/auto", h.AutoSync)
		sync.GET("/logs", h.RecentLogs)
	}

	listings := rg.Group("/listings")
	{
		listings.GET("", h.ListMappings)
		listings.GET("/:productId", h.GetMapping)
		listings.PUT("/:productId", h.UpdateListing)
		listings.DELETE("/:productId", h.EndListing)
	}
}

// ---------------------------------------------------------------------------
// Request / Response DTOs
// ---------------------------------------------------------------------------

// SyncRequest is the body of a batch sync invocation
type SyncRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required,min=1"`
	DryRun     bool     `json:"dry_run"`
	Draft      bool     `json:"draft"`
}

// ListMappingsRequest holds the query parameters of the mapping list endpoint
type ListMappingsRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE DRAFT ENDED"`
}

// MappingResponse is one listing mapping in API responses
type MappingResponse struct {
	ID              string `json:"id"`
	SourceProductID string `json:"source_product_id"`
	ListingID       string `json:"listing_id"`
	OfferID         string `json:"offer_id"`
	SKU             string `json:"sku"`
	Status          string `json:"status"`
	Title           string `json:"title"`
	Price           string `json:"price"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// SyncLogResponse is one audit trail entry in API responses
type SyncLogResponse struct {
	ID         string `json:"id"`
	Direction  string `json:"direction"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Status     string `json:"status"`
	Detail     string `json:"detail"`
	CreatedAt  string `json:"created_at"`
}

func toMappingResponse(m *listing.ListingMapping) MappingResponse {
	return MappingResponse{
		ID:              m.ID.String(),
		SourceProductID: m.SourceProductID,
		ListingID:       m.ListingID,
		OfferID:         m.OfferID,
		SKU:             m.SKU,
		Status:          m.Status.String(),
		Title:           m.Title,
		Price:           m.Price.StringFixed(2),
		CreatedAt:       m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ---------------------------------------------------------------------------
// Sync Endpoints
// ---------------------------------------------------------------------------

// SyncProducts runs a batch sync over the requested product IDs. Per-item
// failures are reported in the result body, never as an HTTP error.
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "product_ids is required and must not be empty")
		return
	}

	result := h.service.SyncProducts(c.Request.Context(), req.ProductIDs, listingapp.SyncOptions{
		DryRun: req.DryRun,
		Draft:  req.Draft,
	})

	logger.GetGinLogger(c).Info("Batch sync finished",
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	h.Success(c, result)
}

// AutoSync discovers unmapped active products and lists them
func (h *SyncHandler) AutoSync(c *gin.Context) {
	result, err := h.service.AutoSyncNewProducts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateListing re-projects one mapped product onto its marketplace listing
func (h *SyncHandler) UpdateListing(c *gin.Context) {
	id := c.Param("productId")

	result, err := h.service.UpdateListing(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// EndListing withdraws the marketplace listing of one mapped product
func (h *SyncHandler) EndListing(c *gin.Context) {
	id := c.Param("productId")

	result := h.service.EndListing(c.Request.Context(), id)
	if result.Success {
		h.Success(c, result)
		return
	}

	switch {
	case strings.Contains(result.Error, listing.ErrMappingNotFound.Error()):
		h.NotFound(c, result.Error)
	case strings.Contains(result.Error, listing.ErrMappingAlreadyEnded.Error()):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, result.Error)
	default:
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, result.Error)
	}
}

// ---------------------------------------------------------------------------
// Read Endpoints
// ---------------------------------------------------------------------------

// ListMappings returns a page of listing mappings
func (h *SyncHandler) ListMappings(c *gin.Context) {
	req := ListMappingsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	filter := listing.MappingFilter{
		SearchKeyword: req.Search,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.Status != "" {
		status := listing.MappingStatus(req.Status)
		filter.Status = &status
	}

	mappings, err := h.mappings.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.InternalError(c, "failed to list mappings")
		return
	}
	total, err := h.mappings.Count(c.Request.Context(), filter)
	if err != nil {
		h.InternalError(c, "failed to count mappings")
		return
	}

	responses := make([]MappingResponse, 0, len(mappings))
	for i := range mappings {
		responses = append(responses, toMappingResponse(&mappings[i]))
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// GetMapping returns the mapping of one source product
func (h *SyncHandler) GetMapping(c *gin.Context) {
	id := c.Param("productId")

	mapping, err := h.mappings.FindBySourceProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toMappingResponse(mapping))
}

// RecentLogs returns the newest audit trail entries
func (h *SyncHandler) RecentLogs(c *gin.Context) {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	entries, err := h.logs.Recent(c.Request.Context(), limit)
	if err != nil {
		h.InternalError(c, "failed to read sync log")
		return
	}

	responses := make([]SyncLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, SyncLogResponse{
			ID:         entry.ID.String(),
			Direction:  string(entry.Direction),
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Status:     string(entry.Status),
			Detail:     entry.Detail,
			CreatedAt:  entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	h.Success(c, responses)
}
