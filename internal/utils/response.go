package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/pkg/listquery"
)

// ErrorResponse is the body of every non-2xx response. The dashboard shows
// Message to the operator.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	RequestID  string `json:"requestId,omitempty"`
}

// MessageResponse is returned by endpoints without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes data as the response body.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Message writes a {"message": ...} body.
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, ErrorResponse{
		StatusCode: code,
		Message:    message,
		Error:      errCode,
		RequestID:  c.GetString("request_id"),
	})
}

// Fail maps err onto an error response. Unknown errors are logged and
// reported as a generic 500 so internals never leak.
func Fail(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("request failed")
		}
		Error(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	var paramErr *listquery.ParamError
	if errors.As(err, &paramErr) {
		Error(c, http.StatusBadRequest, "INVALID_QUERY", paramErr.Error())
		return
	}

	log.Error().Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
