package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// VariationService is the variation behaviour the handler exposes
type VariationService interface {
	Matrix(ctx context.Context, productID uuid.UUID) (*catalogapp.MatrixResponse, error)
	Save(ctx context.Context, vendorID, productID uuid.UUID, req catalogapp.SaveVariationsRequest) error
	Variant(ctx context.Context, productID uuid.UUID, ids []catalog.OptionID) (*catalogapp.VariantResponse, error)
}

// VariationHandler handles product variation endpoints
type VariationHandler struct {
	BaseHandler
	service VariationService
}

// NewVariationHandler creates a new VariationHandler
func NewVariationHandler(service VariationService) *VariationHandler {
	return &VariationHandler{service: service}
}

// VariantBody selects one option per variation type
// @name HandlerVariantBody
type VariantBody struct {
	OptionIDs []catalog.OptionID `json:"option_ids" binding:"required" swaggertype:"array,integer" example:"3,7"`
}

// RegisterRoutes registers the variation routes on rg
func (h *VariationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products/:id")
	g.GET("/variations", h.Matrix)
	g.PUT("/variations", middleware.RequireUser(), h.Save)
	g.POST("/price", h.Variant)
}

// Matrix godoc
// @ID           getProductVariations
// @Summary      Get the variation matrix of a product
// @Description  Returns one row per combination of variation options. Saved combinations keep their price and quantity, the rest default to the product's own.
// @Tags         variations
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.MatrixResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/variations [get]
func (h *VariationHandler) Matrix(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Matrix(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Save godoc
// @ID           saveProductVariations
// @Summary      Replace the saved variation combinations of a product
// @Description  Every previously saved combination is removed and the submitted rows are stored. Only the owning vendor may do this.
// @Tags         variations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.SaveVariationsRequest true "Combinations"
// @Success      200 {object} APIResponse[catalogapp.MatrixResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /products/{id}/variations [put]
func (h *VariationHandler) Save(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SaveVariationsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	vendorID := middleware.GetOwner(c).UserID()
	if err := h.service.Save(ctx, vendorID, productID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.Matrix(ctx, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Variant godoc
// @ID           getProductVariantPrice
// @Summary      Price an option selection
// @Description  Returns the price and stock of the combination matching the selected options, in any order
// @Tags         variations
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body VariantBody true "Selected options"
// @Success      200 {object} APIResponse[catalogapp.VariantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /products/{id}/price [post]
func (h *VariationHandler) Variant(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var body VariantBody
	if !h.BindJSON(c, &body) {
		return
	}

	resp, err := h.service.Variant(c.Request.Context(), productID, body.OptionIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
