package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labslot/internal/apperr"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error writes a classified failure with its mapped status code.
// Unclassified errors are reported as opaque 500s so driver details
// never leak to callers.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case apperr.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
