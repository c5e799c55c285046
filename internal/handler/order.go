package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/middleware"
	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.svc.Checkout(c.Request.Context(), middleware.GetSubject(c).CustomerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMsg("order created successfully", toOrderResponse(order)))
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.svc.ListByCustomer(c.Request.Context(), middleware.GetSubject(c).CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toOrderListResponse(orders)))
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toOrderListResponse(orders)))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid order ID"))
		return
	}
	order, err := h.svc.GetByID(c.Request.Context(), middleware.GetSubject(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toOrderResponse(order)))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid order ID"))
		return
	}
	order, err := h.svc.Cancel(c.Request.Context(), middleware.GetSubject(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("order cancelled successfully", toOrderResponse(order)))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid order ID"))
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("order status updated successfully", toOrderResponse(order)))
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:       item.ID,
			GuitarID: item.GuitarID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return dto.OrderResponse{
		ID:                order.ID,
		CustomerID:        order.CustomerID,
		Items:             items,
		ShippingAddress:   order.ShippingAddress,
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		Status:            order.Status,
		Subtotal:          order.Subtotal,
		Tax:               order.Tax,
		ShippingCost:      order.ShippingCost,
		TotalAmount:       order.TotalAmount,
		TrackingNumber:    order.TrackingNumber,
		EstimatedDelivery: order.EstimatedDelivery,
		Notes:             order.Notes,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func toOrderListResponse(orders []model.Order) dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return dto.OrderListResponse{Orders: items, Total: len(items)}
}
