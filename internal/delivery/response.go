package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"covercart-backend/internal/domain"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// statusFromError maps the domain error taxonomy to HTTP statuses. Validation
// and stock errors keep their reason text; anything unexpected becomes a
// generic 500 so datastore details never leak to customers.
func statusFromError(err error) (int, string) {
	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, err.Error()
	}
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, err.Error()
	}
	var short *domain.InsufficientStockError
	if errors.As(err, &short) {
		return http.StatusConflict, err.Error()
	}
	switch {
	case errors.Is(err, domain.ErrCoverNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrSummaryNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrOrderCancelled),
		errors.Is(err, domain.ErrConsignmentBooked):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
