package http

import (
	"github.com/gin-gonic/gin"
)

// respondWithError sends the {"error": ...} body every failure shares.
func respondWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}

// respondWithMessage sends a bare {"message": ...} success body.
func respondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}
