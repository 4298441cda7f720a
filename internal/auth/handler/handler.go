package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"social-login/internal/auth"
	"social-login/internal/auth/manager"
	"social-login/internal/logger"
	"social-login/internal/middleware"
)

type Handler struct {
	manager      *manager.Manager
	cookieSecure bool
}

func NewHandler(m *manager.Manager, cookieSecure bool) *Handler {
	return &Handler{
		manager:      m,
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes mounts the pages and the login flow on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(pages)

	web := r.Group("/")
	web.Use(middleware.GinLoadIdentity(middleware.NewIdentityMiddleware(h.manager)))
	web.GET("/", h.home)
	web.GET("/profile", h.profile)

	r.GET("/auth/:provider", h.login)
	r.GET("/auth/:provider/redirect", h.callback)
	r.GET("/logout", h.logout)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

func (h *Handler) login(c *gin.Context) {
	redirect, err := h.manager.BeginLogin(c.Param("provider"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.setPendingLogin(c, redirect.State, redirect.CodeVerifier)
	c.Redirect(http.StatusFound, redirect.URL)
}

func (h *Handler) callback(c *gin.Context) {
	cb := manager.Callback{
		Code:              c.Query("code"),
		State:             c.Query("state"),
		ExpectedState:     readCookie(c, stateCookieName),
		CodeVerifier:      readCookie(c, pkceCookieName),
		Error:             c.Query("error"),
		ErrorDescription:  c.Query("error_description"),
		RequireState:      true,
		PreviousSessionID: h.manager.SessionID(c.Request),
	}
	h.clearPendingLogin(c)

	login, err := h.manager.CompleteLogin(c.Request.Context(), c.Param("provider"), cb)
	if err != nil {
		var failure *auth.AuthFailure
		if errors.As(err, &failure) {
			c.Redirect(http.StatusFound, "/?login_error="+url.QueryEscape(string(failure.Reason)))
			return
		}
		h.abortWithError(c, err)
		return
	}

	h.manager.SetSessionCookie(c.Writer, login.Session)
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) logout(c *gin.Context) {
	err := h.manager.Logout(c.Request.Context(), h.manager.SessionID(c.Request))

	// The cookie goes whatever the store said.
	h.manager.ClearSessionCookie(c.Writer)

	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	var unsupported *auth.UnsupportedProviderError
	if errors.As(err, &unsupported) {
		c.String(http.StatusNotFound, "unknown identity provider")
		c.Abort()
		return
	}

	_ = c.Error(err)
	logger.Error("request failed", map[string]any{
		"path":       c.Request.URL.Path,
		"request_id": middleware.RequestIDFromContext(c.Request.Context()),
		"error":      err,
	})
	c.AbortWithStatus(http.StatusInternalServerError)
}
