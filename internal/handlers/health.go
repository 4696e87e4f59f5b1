package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var healthBody = []byte(`{"status": "ok"}`)

// Health is the liveness probe. It never touches the database.
func Health(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", healthBody)
}
