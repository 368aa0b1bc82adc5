package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the caller on every ledger mutation. Authentication happens upstream.
const ActorHeader = "X-Actor-ID"

// actorIDKey is the key used to store the acting user's ID in the Gin context.
const actorIDKey = contextKey("actorID")

// RequireActor rejects requests that do not name an actor.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ActorHeader + " header is required"})
			return
		}
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the actor ID set by RequireActor.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}
	actorID, ok := actorIDVal.(string)
	return actorID, ok && actorID != ""
}
