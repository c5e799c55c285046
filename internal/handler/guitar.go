package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/service"
)

type GuitarHandler struct {
	svc *service.GuitarService
}

func NewGuitarHandler(svc *service.GuitarService) *GuitarHandler {
	return &GuitarHandler{svc: svc}
}

func (h *GuitarHandler) List(c *gin.Context) {
	var req dto.ListGuitarsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}

func (h *GuitarHandler) Featured(c *gin.Context) {
	resp, err := h.svc.ListFeatured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}

func (h *GuitarHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}

func (h *GuitarHandler) Create(c *gin.Context) {
	var req dto.CreateGuitarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(resp))
}

func (h *GuitarHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	var req dto.UpdateGuitarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}

func (h *GuitarHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, dto.Fail("guitar not found"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("guitar deleted successfully", nil))
}
