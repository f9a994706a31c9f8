package auth_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

const invalidLoginMessage = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *model.User, error)
}

type LoginHandler struct {
	auth   Authenticator
	cookie CookieConfig
	log    ports.Logger
}

func NewLoginHandler(auth Authenticator, cookie CookieConfig, log ports.Logger) *LoginHandler {
	return &LoginHandler{auth: auth, cookie: cookie, log: log}
}

func (h *LoginHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", render.Page(c, gin.H{
		"Next":     c.Query("next"),
		"Username": "",
		"Error":    "",
	}))
}

func (h *LoginHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := c.PostForm("next")

	token, user, err := h.auth.Login(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, custom_errors.ErrInvalidCredentials) {
			h.log.Error("Login failed", slog.String("error", err.Error()))
			_ = c.Error(err)
			render.ServerError(c)
			return
		}
		c.HTML(http.StatusOK, "login.html", render.Page(c, gin.H{
			"Next":     next,
			"Username": username,
			"Error":    invalidLoginMessage,
		}))
		return
	}

	h.cookie.set(c, token)
	h.log.Debug("Session cookie issued", slog.Int64("user_id", user.ID))
	c.Redirect(http.StatusFound, safeNext(next))
}
