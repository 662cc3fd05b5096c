package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/cart"
	"storefront/internal/session"
)

const (
	sessionCookie = "cart_session"
	sessionHeader = "X-Cart-Session"
	sessionKey    = "cartSessionID"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// sessionMiddleware resolves the cart session from the cookie or header and
// issues a new one when neither carries a valid id.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || !session.ValidID(id) {
			id = c.GetHeader(sessionHeader)
		}
		if !session.ValidID(id) {
			id = session.NewID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		c.Header(sessionHeader, id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

// cartProvider binds the session's store to the request context for the
// rest of the chain and holds its lease until the handlers return.
func cartProvider(sessions sessionOpener) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetString(sessionKey)
		if id == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		store, release := sessions.Open(ctx, id)
		defer release()
		c.Request = c.Request.WithContext(cart.WithStore(ctx, store))
		c.Next()
	}
}

// storeFrom returns the bound store or aborts with a 500 naming the missing provider.
func storeFrom(c *gin.Context) (*cart.Store, bool) {
	store, err := cart.FromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return store, true
}
