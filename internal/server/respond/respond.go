// Package respond renders the uniform response envelope: a data payload on
// success, a typed error payload on failure. Status mapping from the error
// taxonomy happens here and nowhere else.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"squad-portal/backend/internal/platform/apperror"
)

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Data writes {"data": v} with the given status.
func Data(c *gin.Context, status int, v any) {
	c.JSON(status, gin.H{"data": v})
}

// Created writes {"data": v} with 201.
func Created(c *gin.Context, v any) {
	Data(c, http.StatusCreated, v)
}

// OK writes {"data": v} with 200.
func OK(c *gin.Context, v any) {
	Data(c, http.StatusOK, v)
}

// Error writes {"error": {code, message}} for err. Typed application errors
// map to their status; anything else is a 500 with an opaque message, logged
// with its cause.
func Error(c *gin.Context, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		ae = apperror.Internal(err)
	}
	if ae.Kind == apperror.KindInternal {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(ae.Kind.HTTPStatus(), gin.H{"error": ErrorBody{
		Code:    ae.Kind.Code(),
		Message: ae.Message(),
	}})
}
