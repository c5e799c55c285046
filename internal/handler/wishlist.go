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

type WishlistHandler struct {
	svc *service.WishlistService
}

func NewWishlistHandler(svc *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetSubject(c).CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toWishlistResponse(items)))
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var req dto.AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.svc.Add(c.Request.Context(), middleware.GetSubject(c).CustomerID, req.GuitarID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMsg("guitar added to wishlist successfully", toWishlistItemResponse(item)))
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	guitarID, err := uuid.Parse(c.Param("guitarId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	if err := h.svc.Remove(c.Request.Context(), middleware.GetSubject(c).CustomerID, guitarID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("guitar removed from wishlist successfully", nil))
}

func (h *WishlistHandler) Check(c *gin.Context) {
	guitarID, err := uuid.Parse(c.Param("guitarId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	in, err := h.svc.Check(c.Request.Context(), middleware.GetSubject(c).CustomerID, guitarID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.WishlistCheckResponse{InWishlist: in}))
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), middleware.GetSubject(c).CustomerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("wishlist cleared successfully", nil))
}

func toWishlistItemResponse(item *model.WishlistItem) dto.WishlistItemResponse {
	return dto.WishlistItemResponse{ID: item.ID, GuitarID: item.GuitarID, AddedAt: item.AddedAt}
}

func toWishlistResponse(items []model.WishlistItem) dto.WishlistResponse {
	resp := dto.WishlistResponse{Items: make([]dto.WishlistItemResponse, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, toWishlistItemResponse(&items[i]))
	}
	resp.Count = len(resp.Items)
	return resp
}
