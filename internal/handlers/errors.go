package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/utkirwork/draw-sql-sub001/internal/apperrors"
	"github.com/utkirwork/draw-sql-sub001/internal/codegen"
	"github.com/utkirwork/draw-sql-sub001/internal/middlewares"
	"github.com/utkirwork/draw-sql-sub001/internal/responses"
	"github.com/utkirwork/draw-sql-sub001/internal/utils"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, codegen.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codegen.ErrUnknownConvention), errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Server errors are recorded on the context for
// the request logger and get a generic message.
func fail(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		responses.Fail(c, status, err, message)
		return
	}
	responses.Fail(c, status, err, err.Error())
}

// requestIDs reads the authenticated user and the :id path parameter.
func requestIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
