package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	pendingTTL      = 5 * time.Minute

	// Both callbacks live under /auth/:provider/redirect.
	pendingCookiePath = "/auth"
)

// setPendingLogin keeps the state and PKCE verifier of a started login in
// short-lived cookies until the provider redirects back.
func (h *Handler) setPendingLogin(c *gin.Context, state, verifier string) {
	h.setPendingCookie(c, stateCookieName, state, int(pendingTTL.Seconds()))
	h.setPendingCookie(c, pkceCookieName, verifier, int(pendingTTL.Seconds()))
}

// clearPendingLogin drops both cookies; they are single use.
func (h *Handler) clearPendingLogin(c *gin.Context) {
	h.setPendingCookie(c, stateCookieName, "", -1)
	h.setPendingCookie(c, pkceCookieName, "", -1)
}

func (h *Handler) setPendingCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     pendingCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func readCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
