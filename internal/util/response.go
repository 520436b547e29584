package util

import "github.com/gin-gonic/gin"

// Response is the data payload of a successful JSON reply.
type Response map[string]interface{}

// Success writes a success payload as-is.
func Success(c *gin.Context, status int, data Response) {
	c.JSON(status, data)
}

// Error writes the stable `{"error": ...}` shape shared by every endpoint.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}
