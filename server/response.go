package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/linekit/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError renders err. AppErrors keep their status and body, a
// body over the size limit answers 413, anything else a generic 500.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.Status(), appErr.ToResponse())
		return
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		appErr = errors.New(errors.ErrCodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge).
			WithDetail("limit", tooLarge.Limit)
		c.JSON(appErr.Status(), appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, errors.Internal(err).ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
