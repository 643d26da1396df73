package handler

import (
	"context"

	catalogapp "github.com/commercebay/backoffice/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles product and variant endpoints
type ProductHandler struct {
	BaseHandler
	variants *catalogapp.VariantService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(variants *catalogapp.VariantService) *ProductHandler {
	return &ProductHandler{variants: variants}
}

// RegisterRoutes registers product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.GET("/:id/variants", h.ListVariants)
		products.POST("/:id/dimensions", h.AddDimension)
		products.POST("/:id/dimensions/values", h.AddValues)
		products.DELETE("/:id/dimensions/:name", h.RemoveDimension)
	}
}

// Create creates a dimensionless product with its synthetic variant
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.variants.CreateProduct(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List returns a page of the store's products
func (h *ProductHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.variants.ListProducts(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.variants.GetProduct(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListVariants returns the product's variants. ?active=true narrows
// the result to non-deprecated variants.
func (h *ProductHandler) ListVariants(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	activeOnly := c.Query("active") == "true"
	variants, err := h.variants.ListVariants(c.Request.Context(), storeID, productID, activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

// AddDimension declares a new option dimension and regenerates variants
func (h *ProductHandler) AddDimension(c *gin.Context) {
	h.mutateDimensions(c, h.variants.AddDimension)
}

// AddValues extends an existing dimension with new values
func (h *ProductHandler) AddValues(c *gin.Context) {
	h.mutateDimensions(c, h.variants.AddValues)
}

// RemoveDimension drops a dimension and regenerates variants
func (h *ProductHandler) RemoveDimension(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	name := c.Param("name")
	if name == "" {
		h.BadRequest(c, "Dimension name is required")
		return
	}

	result, err := h.variants.RemoveDimension(c.Request.Context(), storeID, productID, name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// mutateDimensions runs one generator operation shared by AddDimension
// and AddValues.
func (h *ProductHandler) mutateDimensions(
	c *gin.Context,
	op func(ctx context.Context, storeID, productID uuid.UUID, req catalogapp.DimensionRequest) (*catalogapp.GenerationResultDTO, error),
) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.DimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := op(c.Request.Context(), storeID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
