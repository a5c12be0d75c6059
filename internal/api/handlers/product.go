package handlers

import (
	"log/slog"
	"net/http"

	"github.com/furstore/fur-store-backend/internal/api/middleware"
	"github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	service "github.com/furstore/fur-store-backend/internal/services"
	"github.com/furstore/fur-store-backend/internal/utils"
	"github.com/furstore/fur-store-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// ListProducts godoc
//	@Summary		List products, optionally filtered
//	@Description	Returns product summaries. The filter body is optional; category and price bound criteria combine conjunctively, and a filter matching nothing yields an empty list.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			filter	body		models.ListProductsRequest	false	"Filter criteria"
//	@Success		200		{array}		models.ProductSummary
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/products [post]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var filter models.ListProductsRequest
		if r.ContentLength != 0 {
			if err := utils.DecodeJSONBody(r, &filter); err != nil {
				logger.Warn("Invalid product filter", slog.Any("error", err))
				response.Error(w, errors.ValidationError("Invalid filter body"))
				return
			}
		}

		products, err := h.productService.ListProducts(r.Context(), &filter)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//	@Summary		Get a product by id
//	@Description	Returns full product detail. Optional min_price and max_price query bounds reject the product with a range violation when its price falls outside them.
//	@Tags			Products
//	@Produce		json
//	@Param			id			path		int		true	"Product ID"
//	@Param			min_price	query		number	false	"Inclusive lower price bound"
//	@Param			max_price	query		number	false	"Inclusive upper price bound"
//	@Success		200	{object}	models.Product
//	@Failure		400	{object}	response.ErrorResponse	"Malformed bound or price outside bounds"
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/product/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		minPrice, err := parsePriceBound(r, "min_price")
		if err != nil {
			response.Error(w, err)
			return
		}
		maxPrice, err := parsePriceBound(r, "max_price")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id, minPrice, maxPrice)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product data"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse	"Category not found"
//	@Security		BearerAuth
//	@Router			/product [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized product creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("name", req.Name), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Partial update; only supplied fields change. The cached copy is invalidated.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to update"
//	@Success		200		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/product/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized product update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product update input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

func parsePriceBound(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	bound, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.ValidationError("Invalid " + name + " value")
	}

	return &bound, nil
}
