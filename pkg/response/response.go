package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the body of every non-data API response.
type Message struct {
	Message string `json:"message"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OKMessage sends 200 with a message body.
func OKMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Message{Message: msg})
}

// CreatedMessage sends 201 with a message body.
func CreatedMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusCreated, Message{Message: msg})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Message{Message: msg})
}

// NotFound sends 404.
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Message{Message: msg})
}

// Conflict sends 409.
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, Message{Message: msg})
}

// Internal sends 500. The message must not carry error details.
func Internal(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Message{Message: msg})
}
