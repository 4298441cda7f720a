package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-login/internal/auth"
	"social-login/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var loginErrorMessages = map[auth.FailureReason]string{
	auth.ReasonDenied:       "Login was cancelled.",
	auth.ReasonInvalidCode:  "The login could not be completed. Please try again.",
	auth.ReasonInvalidState: "The login expired. Please try again.",
	auth.ReasonNetwork:      "The identity provider could not be reached. Please try again.",
	auth.ReasonTimeout:      "The identity provider took too long to answer. Please try again.",
}

const genericLoginError = "Login failed. Please try again."

func loginErrorMessage(raw string) string {
	if raw == "" {
		return ""
	}
	if msg, ok := loginErrorMessages[auth.FailureReason(raw)]; ok {
		return msg
	}
	return genericLoginError
}

func (h *Handler) home(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c.Request.Context())

	providers := h.manager.Providers()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Identity":   identity,
		"Providers":  names,
		"LoginError": loginErrorMessage(c.Query("login_error")),
	})
}

func (h *Handler) profile(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c.Request.Context())

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Identity": identity,
	})
}
