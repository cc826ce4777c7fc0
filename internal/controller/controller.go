package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
)

// StatusFromError maps domain errors to HTTP status codes. Anything
// unmapped is a 500.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyEnrolled),
		errors.Is(err, apperr.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrRoleForbidden),
		errors.Is(err, apperr.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrPaymentInvalid):
		return http.StatusPaymentRequired
	case errors.Is(err, apperr.ErrNoContent),
		errors.Is(err, apperr.ErrStudentUnresolved):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// RespondError writes the mapped status with the error message as body.
func RespondError(c *gin.Context, err error) {
	c.JSON(StatusFromError(err), dto.ErrorResponse{Error: err.Error()})
}

// ParseID reads a positive integer path parameter, answering a 400 and
// returning false when it is malformed.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
