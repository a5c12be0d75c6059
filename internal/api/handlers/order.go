package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/furstore/fur-store-backend/internal/api/middleware"
	"github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	service "github.com/furstore/fur-store-backend/internal/services"
	"github.com/furstore/fur-store-backend/internal/utils/response"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder godoc
//	@Summary		Convert the user's cart into an order
//	@Description	Snapshots the cart lines into an immutable order and empties the cart in a single transaction. An empty cart is rejected.
//	@Tags			Orders
//	@Produce		json
//	@Success		201	{object}	models.Order
//	@Failure		400	{object}	response.ErrorResponse	"Cart is empty"
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Security		BearerAuth
//	@Router			/order [post]
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		order, err := h.orderService.PlaceOrder(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Failed to place order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed",
			slog.String("orderId", order.ID.String()),
			slog.Int("items", len(order.Items)))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary		Get a single order by id
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	models.Order
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/order/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.ValidationError("Invalid order ID"))
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), orderID)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", orderID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if order.UserID != claims.UserID {
			logger.Warn("Order ownership mismatch", slog.String("orderId", orderID.String()))
			response.Error(w, errors.ForbiddenError("You do not have access to this order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List the user's orders
//	@Tags			Orders
//	@Produce		json
//	@Param			page	query		int	false	"Page number"	default(1)
//	@Param			pageSize	query	int	false	"Page size"		default(10)
//	@Success		200	{object}	models.PaginatedResponse
//	@Failure		401	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		orders, total, err := h.orderService.ListOrdersByUser(r.Context(), claims.UserID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}
