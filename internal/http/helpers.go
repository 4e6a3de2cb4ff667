// README: JSON error envelope and module error to status code mapping.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/internal/modules/booking"
	"washride/internal/modules/driver"
	"washride/internal/modules/location"
	"washride/internal/modules/payment"
	"washride/internal/modules/provider"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, driver.ErrNotFound),
		errors.Is(err, provider.ErrNotFound),
		errors.Is(err, location.ErrNoPosition):
		return http.StatusNotFound

	case errors.Is(err, booking.ErrBadRequest),
		errors.Is(err, provider.ErrBadRequest),
		errors.Is(err, payment.ErrInvalidDetails):
		return http.StatusBadRequest

	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrActiveBooking),
		errors.Is(err, booking.ErrConflict),
		errors.Is(err, booking.ErrAmbiguousActive),
		errors.Is(err, provider.ErrNotApproved):
		return http.StatusConflict

	case errors.Is(err, payment.ErrDeclined):
		return http.StatusPaymentRequired

	default:
		return http.StatusInternalServerError
	}
}
