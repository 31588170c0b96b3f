package handler

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// CartLedger is the cart behaviour the handler exposes
type CartLedger interface {
	AddItem(ctx context.Context, owner cart.Owner, req cartapp.AddItemRequest) error
	UpdateQuantity(ctx context.Context, owner cart.Owner, req cartapp.UpdateItemRequest) error
	RemoveItem(ctx context.Context, owner cart.Owner, req cartapp.RemoveItemRequest) error
	ListItems(ctx context.Context, owner cart.Owner) []cartapp.ItemView
	TotalQuantity(ctx context.Context, owner cart.Owner) int
	TotalPrice(ctx context.Context, owner cart.Owner) decimal.Decimal
	GroupBySeller(ctx context.Context, owner cart.Owner) map[uuid.UUID]cartapp.SellerGroup
	MergeGuestIntoUser(ctx context.Context, guestToken string, userID uuid.UUID) error
}

// CartHandler handles cart API endpoints
type CartHandler struct {
	BaseHandler
	ledger CartLedger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(ledger CartLedger) *CartHandler {
	return &CartHandler{ledger: ledger}
}

// CartResponse is the cart with its totals
// @name HandlerCartResponse
type CartResponse struct {
	Items         []cartapp.ItemView `json:"items"`
	TotalQuantity int                `json:"total_quantity" example:"3"`
	TotalPrice    decimal.Decimal    `json:"total_price" swaggertype:"string" example:"45.00"`
}

// GroupedCartResponse is the cart split per seller
// @name HandlerGroupedCartResponse
type GroupedCartResponse struct {
	Sellers       []cartapp.SellerGroup `json:"sellers"`
	TotalQuantity int                   `json:"total_quantity" example:"3"`
	TotalPrice    decimal.Decimal       `json:"total_price" swaggertype:"string" example:"45.00"`
}

// AddItemBody is the request body for adding to the cart. Omitting
// option_ids selects the first option of every variation type.
// @name HandlerAddItemBody
type AddItemBody struct {
	ProductID string  `json:"product_id" binding:"required,uuid" example:"7c1f8a52-3b4e-4d8e-9a51-0f7f2d3c9b10"`
	Quantity  *int    `json:"quantity" example:"1"`
	OptionIDs []int64 `json:"option_ids" example:"3,7"`
}

// UpdateItemBody is the request body for changing a line quantity
// @name HandlerUpdateItemBody
type UpdateItemBody struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  int     `json:"quantity" example:"2"`
	OptionIDs []int64 `json:"option_ids"`
}

// RemoveItemBody is the request body for removing a line
// @name HandlerRemoveItemBody
type RemoveItemBody struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	OptionIDs []int64 `json:"option_ids"`
}

// RegisterRoutes registers the cart routes on rg
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.GET("", h.Get)
	g.GET("/grouped", h.Grouped)
	g.POST("/items", h.AddItem)
	g.PUT("/items", h.UpdateItem)
	g.DELETE("/items", h.RemoveItem)
	g.POST("/merge", middleware.RequireUser(), h.Merge)
}

// Get godoc
// @ID           getCart
// @Summary      Get the cart
// @Description  Lists the cart lines with live product data. Products that are no longer visible are left out.
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[CartResponse]
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	h.Success(c, h.cartResponse(c.Request.Context(), middleware.GetOwner(c)))
}

// Grouped godoc
// @ID           getCartGrouped
// @Summary      Get the cart grouped by seller
// @Description  Splits the cart into one group per vendor, for per-seller checkout
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[GroupedCartResponse]
// @Router       /cart/grouped [get]
func (h *CartHandler) Grouped(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.GetOwner(c)

	groups := h.ledger.GroupBySeller(ctx, owner)
	sellers := make([]cartapp.SellerGroup, 0, len(groups))
	for _, g := range groups {
		sellers = append(sellers, g)
	}
	sort.Slice(sellers, func(i, j int) bool {
		if sellers[i].Vendor.Name != sellers[j].Vendor.Name {
			return sellers[i].Vendor.Name < sellers[j].Vendor.Name
		}
		return sellers[i].Vendor.ID.String() < sellers[j].Vendor.ID.String()
	})

	h.Success(c, GroupedCartResponse{
		Sellers:       sellers,
		TotalQuantity: h.ledger.TotalQuantity(ctx, owner),
		TotalPrice:    h.ledger.TotalPrice(ctx, owner),
	})
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Adds quantity units of a product option selection. Adding the same selection again increases its quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body AddItemBody true "Item to add"
// @Success      200 {object} APIResponse[CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var body AddItemBody
	if !h.BindJSON(c, &body) {
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	ctx := c.Request.Context()
	owner := middleware.GetOwner(c)
	err := h.ledger.AddItem(ctx, owner, cartapp.AddItemRequest{
		ProductID: uuid.MustParse(body.ProductID),
		Quantity:  quantity,
		OptionIDs: optionIDs(body.OptionIDs),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.cartResponse(ctx, owner))
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Change the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body UpdateItemBody true "Line and new quantity"
// @Success      200 {object} APIResponse[CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /cart/items [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var body UpdateItemBody
	if !h.BindJSON(c, &body) {
		return
	}

	ctx := c.Request.Context()
	owner := middleware.GetOwner(c)
	err := h.ledger.UpdateQuantity(ctx, owner, cartapp.UpdateItemRequest{
		ProductID: uuid.MustParse(body.ProductID),
		Quantity:  body.Quantity,
		OptionIDs: optionIDs(body.OptionIDs),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.cartResponse(ctx, owner))
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body RemoveItemBody true "Line to remove"
// @Success      200 {object} APIResponse[CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /cart/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var body RemoveItemBody
	if !h.BindJSON(c, &body) {
		return
	}

	ctx := c.Request.Context()
	owner := middleware.GetOwner(c)
	err := h.ledger.RemoveItem(ctx, owner, cartapp.RemoveItemRequest{
		ProductID: uuid.MustParse(body.ProductID),
		OptionIDs: optionIDs(body.OptionIDs),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.cartResponse(ctx, owner))
}

// Merge godoc
// @ID           mergeCart
// @Summary      Merge the guest cart into the signed-in user's cart
// @Description  Moves every guest line into the user's cart, adding quantities for selections already present, then clears the guest cart.
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[CartResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /cart/merge [post]
func (h *CartHandler) Merge(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.GetOwner(c)

	if token := middleware.GetGuestToken(c); token != "" {
		if err := h.ledger.MergeGuestIntoUser(ctx, token, owner.UserID()); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.Success(c, h.cartResponse(ctx, owner))
}

func (h *CartHandler) cartResponse(ctx context.Context, owner cart.Owner) CartResponse {
	return CartResponse{
		Items:         h.ledger.ListItems(ctx, owner),
		TotalQuantity: h.ledger.TotalQuantity(ctx, owner),
		TotalPrice:    h.ledger.TotalPrice(ctx, owner),
	}
}

// optionIDs keeps nil distinct from an explicit empty selection
func optionIDs(ids []int64) []catalog.OptionID {
	if ids == nil {
		return nil
	}
	out := make([]catalog.OptionID, len(ids))
	for i, id := range ids {
		out[i] = catalog.OptionID(id)
	}
	return out
}
