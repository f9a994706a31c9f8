package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	model "yatube-post-service/internal/domain/models"
	auth_service "yatube-post-service/internal/domain/ports/input/auth"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/auth/login/"

// Identity resolves the session cookie into the current user. Requests with a
// missing or dead session continue anonymously.
func Identity(identity auth_service.IdentityProvider, cookieName string, log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := identity.Identify(c.Request.Context(), token)
		if err != nil {
			log.Debug("Anonymous request with stale session", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
			c.Next()
			return
		}

		c.Set(render.CurrentUserKey, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(render.CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// RequireLogin sends anonymous visitors to the login page and brings them back afterwards.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL keeps slashes of next readable: /auth/login/?next=/create/.
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}
