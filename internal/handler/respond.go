package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respond helpers keep every endpoint on the same JSON envelope.

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": message})
}

func respondUnprocessable(c *gin.Context, message string, details any) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"error":   message,
		"details": details,
	})
}
