package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"glowbook/internal/pkg/validator"
)

// Success wraps data in the {"success":true,"data":...} envelope.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Navigate tells the client which screen to show next after a write.
func Navigate(c *gin.Context, statusCode int, path string) {
	c.JSON(statusCode, gin.H{
		"success":  true,
		"redirect": path,
	})
}

// ValidationFailed answers 400 with the failing fields of a bind error.
func ValidationFailed(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Please check the highlighted fields.", validator.Fields(err))
}

// RequestFailed is the one message screens show when a backend call fails.
func RequestFailed(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "REQUEST_FAILED", "Something went wrong. Please try again.")
}
