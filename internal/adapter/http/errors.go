package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarsh180/accidentaware/internal/entity"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

// writeErr maps the domain taxonomy onto HTTP. The code string is stable so
// the UI can tell retry-worthy failures (gateway_unavailable) from
// fix-your-input ones (invalid_amount).
func writeErr(c *gin.Context, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, entity.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, entity.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, entity.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, entity.ErrBadCallback):
		status, code = http.StatusBadRequest, "bad_callback"
	case errors.Is(err, entity.ErrInvalidSignature):
		status, code = http.StatusBadRequest, "invalid_signature"
	case errors.Is(err, entity.ErrGatewayUnavailable):
		status, code = http.StatusBadGateway, "gateway_unavailable"
	case errors.Is(err, usecase.ErrDuplicate):
		status, code = http.StatusConflict, "duplicate_callback"
	case errors.Is(err, entity.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}
	c.JSON(status, gin.H{"error": code})
}
