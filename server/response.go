package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voiceorder/errors"
)

// FailureResponse is the envelope for every failed API call.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// RespondFailure sends status with a plain failure message.
func RespondFailure(c *gin.Context, status int, msg string) {
	c.JSON(status, FailureResponse{Error: msg})
}

// RespondWithError derives status and message from an AppError; anything
// else is a 500 with a generic message.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, FailureResponse{Error: appErr.Message, Code: string(appErr.Code)})
		return
	}
	c.JSON(http.StatusInternalServerError, FailureResponse{Error: "internal error", Code: string(apperrors.ErrCodeInternal)})
}
