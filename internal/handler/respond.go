package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guitarhaus/guitarhaus-api/internal/authz"
	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/service"
)

// respondError maps service sentinels onto HTTP statuses in one place so every
// endpoint surfaces failures the same way. Anything unrecognized is an
// unexpected failure and stays opaque to the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGuitarNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrNotInWishlist),
		errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Fail(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.Fail(err.Error()))
	case errors.Is(err, service.ErrGuitarUnavailable),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrCustomerExists),
		errors.Is(err, service.ErrAlreadyInWishlist):
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.Fail("internal server error"))
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
}
