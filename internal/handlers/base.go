package handlers

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like pending flash messages
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		obj["Flashes"] = flashes
		if err := session.Save(); err != nil {
			log.Printf("Failed to clear flashes: %v", err)
		}
	}

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{
		"Title": http.StatusText(code),
		"Code":  code,
		"Error": message,
	})
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
}
