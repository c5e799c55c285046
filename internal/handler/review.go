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

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) ListForGuitar(c *gin.Context) {
	guitarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	reviews, err := h.svc.ListByGuitar(c.Request.Context(), guitarID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toReviewListResponse(reviews)))
}

func (h *ReviewHandler) Add(c *gin.Context) {
	guitarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid guitar ID"))
		return
	}
	var req dto.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, err := h.svc.Add(c.Request.Context(), middleware.GetSubject(c).CustomerID, guitarID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMsg("review added successfully", toReviewResponse(review)))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid review ID"))
		return
	}
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, err := h.svc.Update(c.Request.Context(), middleware.GetSubject(c), reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("review updated successfully", toReviewResponse(review)))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid review ID"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetSubject(c), reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMsg("review deleted successfully", nil))
}

func (h *ReviewHandler) ListMine(c *gin.Context) {
	reviews, err := h.svc.ListByCustomer(c.Request.Context(), middleware.GetSubject(c).CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(toReviewListResponse(reviews)))
}

func toReviewResponse(rv *model.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         rv.ID,
		CustomerID: rv.CustomerID,
		GuitarID:   rv.GuitarID,
		Rating:     rv.Rating,
		Title:      rv.Title,
		Comment:    rv.Comment,
		IsVerified: rv.IsVerified,
		Helpful:    rv.Helpful,
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
}

func toReviewListResponse(reviews []model.Review) dto.ReviewListResponse {
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i]))
	}
	return dto.ReviewListResponse{Reviews: items, Count: len(items)}
}
