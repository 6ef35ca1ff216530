package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	platformerrors "taskflow-server-go/internal/platform/errors"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	if message == "" {
		message = "ok"
	}

	c.JSON(httpStatus, APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondError writes a failure envelope.
func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondServiceError maps a domain error onto the wire: RequestErrors keep
// their status and message, everything else becomes a 500. Internals are only
// exposed when the server runs in development mode.
func RespondServiceError(c *gin.Context, err error, development bool) {
	if req, ok := platformerrors.AsRequest(err); ok {
		RespondError(c, req.Status, req.Message, nil)
		return
	}

	var data interface{}
	if development {
		data = gin.H{"error": err.Error()}
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error", data)
}
