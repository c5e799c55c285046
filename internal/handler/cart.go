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

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), middleware.GetSubject(c).CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toCartResponse(cart)))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := h.svc.AddItem(c.Request.Context(), middleware.GetSubject(c).CustomerID, req.GuitarID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("item added to cart successfully", toCartResponse(cart)))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid item ID"))
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := h.svc.UpdateItem(c.Request.Context(), middleware.GetSubject(c).CustomerID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("cart updated successfully", toCartResponse(cart)))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid item ID"))
		return
	}
	cart, err := h.svc.RemoveItem(c.Request.Context(), middleware.GetSubject(c).CustomerID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("item removed from cart successfully", toCartResponse(cart)))
}

func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.svc.Clear(c.Request.Context(), middleware.GetSubject(c).CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("cart cleared successfully", toCartResponse(cart)))
}

func toCartResponse(cart *model.Cart) dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, dto.CartItemResponse{
			ID: item.ID, GuitarID: item.GuitarID, Quantity: item.Quantity, Price: item.Price,
		})
	}
	return dto.CartResponse{
		ID:          cart.ID,
		Items:       items,
		TotalAmount: cart.TotalAmount,
		ItemCount:   cart.ItemCount,
	}
}
