package auth_http

import (
	"context"
	"log/slog"
	"net/http"

	ports "yatube-post-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

type SessionCloser interface {
	Logout(ctx context.Context, token string) error
}

type LogoutHandler struct {
	auth   SessionCloser
	cookie CookieConfig
	log    ports.Logger
}

func NewLogoutHandler(auth SessionCloser, cookie CookieConfig, log ports.Logger) *LogoutHandler {
	return &LogoutHandler{auth: auth, cookie: cookie, log: log}
}

func (h *LogoutHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.log.Warn("Failed to revoke session on logout", slog.String("error", err.Error()))
		}
	}
	h.cookie.clear(c)
	c.Redirect(http.StatusFound, "/")
}
