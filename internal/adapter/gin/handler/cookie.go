package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionID returns the session ID carried by the request, or "".
func (cc CookieConfig) SessionID(c *gin.Context) string {
	id, err := c.Cookie(cc.Name)
	if err != nil {
		return ""
	}
	return id
}

// Set writes the session cookie.
func (cc CookieConfig) Set(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.Name, id, int(cc.TTL.Seconds()), "/", "", cc.Secure, true)
}

// Clear expires the session cookie on the client.
func (cc CookieConfig) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.Name, "", -1, "/", "", cc.Secure, true)
}
