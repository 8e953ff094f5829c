package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/interfaces/http/response"
	"gotruck.backend/internal/usecases"
	"gotruck.backend/pkg/utils"
)

// OrderHandler handles freight order endpoints
type OrderHandler struct {
	orderUsecase *usecases.OrderUsecase
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUsecase *usecases.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
	}
}

// Create records a new order
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var input entities.CreateOrderInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.orderUsecase.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// Get fetches one order
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderUsecase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// List pages orders newest first
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	params := paginationFromQuery(c)

	orders, total, err := h.orderUsecase.List(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

type recordPaymentInput struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// RecordPayment adds a balance payment; completing the payment triggers the
// referral diesel accrual
// POST /api/v1/orders/:id/payments
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input recordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.orderUsecase.RecordPayment(c.Request.Context(), id, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// Complete marks the order delivered
// POST /api/v1/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderUsecase.Complete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}
