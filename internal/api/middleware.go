package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/service"
	"eventhub/internal/util"
)

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		userID, role, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// store identity in context so handlers can build the actor
		c.Set("user_id", userID)
		c.Set("role", role)

		c.Next()
	}
}

// actorFrom rebuilds the service actor from the middleware claims.
func actorFrom(c *gin.Context) service.Actor {
	var actor service.Actor
	if v, ok := c.Get("user_id"); ok {
		actor.ID = v.(int64)
	}
	if v, ok := c.Get("role"); ok {
		actor.Role = v.(string)
	}
	return actor
}
