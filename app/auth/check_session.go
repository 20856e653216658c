package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckSession runs behind the session auth middleware, so reaching it
// at all means the session resolved to a live user
func CheckSession(c *gin.Context) {
	c.JSON(http.StatusOK, true)
}
