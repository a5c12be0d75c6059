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
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the current user's cart
//	@Description	Returns the cart with its lines and embedded current product data. 404 when no cart exists yet (distinct from an empty cart).
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// CreateCart godoc
//	@Summary		Get or create the user's cart
//	@Description	Returns the existing cart or lazily creates an empty one. Never fails for an authenticated user.
//	@Tags			Cart
//	@Produce		json
//	@Success		201	{object}	models.Cart
//	@Failure		401	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/cart [post]
func (h *CartHandler) CreateCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetOrCreateCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get or create cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart ready", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusCreated, cart)
	}
}

// UpdateQuantity godoc
//	@Summary		Set the quantity of an existing cart line
//	@Description	Overwrites the line's quantity exactly. Never creates a line; adding products is the add_product endpoint's job.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateQuantityRequest	true	"Product and new quantity"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse	"Missing or non-positive quantity"
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse	"Cart or cart line not found"
//	@Security		BearerAuth
//	@Router			/cart [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.SetItemQuantity(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to update cart line",
				slog.Int64("productId", req.ProductID),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart line updated",
			slog.Int64("productId", req.ProductID),
			slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

// AddProduct godoc
//	@Summary		Add a product to the cart
//	@Description	Increments the line for the product by the given quantity (default 1), creating the line when absent.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddProductRequest	true	"Product and quantity"
//	@Success		201		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse	"Cart or product not found"
//	@Security		BearerAuth
//	@Router			/cart/add_product [post]
func (h *CartHandler) AddProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized add product attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add product input")
			return
		}

		cart, err := h.cartService.AddProduct(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add product to cart",
				slog.Int64("productId", req.ProductID),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product added to cart", slog.Int64("productId", req.ProductID))
		response.Success(w, http.StatusCreated, cart)
	}
}

// RemoveProduct godoc
//	@Summary		Remove a product line from the cart
//	@Tags			Cart
//	@Accept			json
//	@Param			item	body	models.RemoveProductRequest	true	"Product to remove"
//	@Success		204
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse	"Cart or cart line not found"
//	@Security		BearerAuth
//	@Router			/cart/remove_product [delete]
func (h *CartHandler) RemoveProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized remove product attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.RemoveProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid remove product input")
			return
		}

		if err := h.cartService.RemoveProduct(r.Context(), claims.UserID, req.ProductID); err != nil {
			logger.Warn("Failed to remove product from cart",
				slog.Int64("productId", req.ProductID),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product removed from cart", slog.Int64("productId", req.ProductID))
		response.NoContent(w)
	}
}

// ClearCart godoc
//	@Summary		Clear all lines from the cart
//	@Description	Deletes every line. Clearing an already empty cart succeeds; a missing cart is a 404.
//	@Tags			Cart
//	@Success		204
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Security		BearerAuth
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized clear cart attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Warn("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.NoContent(w)
	}
}
