package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/schema"
)

// StatusFor maps domain errors onto HTTP status codes: validation problems
// are the client's to fix, schema corruption is ours.
func StatusFor(err error) int {
	var (
		validationErr *schema.ValidationError
		notFoundErr   *schema.NotFoundError
		invariantErr  *schema.InvariantError
		schemaErr     *schema.SchemaError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &invariantErr):
		return http.StatusConflict
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the standard error body for a failed request.
func AbortWithError(ctx *gin.Context, err error) {
	ctx.JSON(StatusFor(err), dto.ErrorResponse{Error: err.Error()})
}
