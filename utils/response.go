package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func SendError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Success: false, Message: message})
}

// SendInternalError hides the underlying error from the caller; the handler is
// expected to log it.
func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, "something went wrong")
}
