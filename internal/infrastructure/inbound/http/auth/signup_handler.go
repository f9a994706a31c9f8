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

type Registrar interface {
	Authenticator
	Signup(ctx context.Context, signup *model.SignupDTO) (*model.User, error)
}

type SignupHandler struct {
	auth   Registrar
	cookie CookieConfig
	log    ports.Logger
}

func NewSignupHandler(auth Registrar, cookie CookieConfig, log ports.Logger) *SignupHandler {
	return &SignupHandler{auth: auth, cookie: cookie, log: log}
}

func (h *SignupHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", render.Page(c, gin.H{"Username": "", "Errors": map[string]string{}}))
}

func (h *SignupHandler) Signup(c *gin.Context) {
	dto := &model.SignupDTO{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	user, err := h.auth.Signup(c.Request.Context(), dto)
	if err != nil {
		var verr *custom_errors.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusOK, "signup.html", render.Page(c, gin.H{
				"Username": dto.Username,
				"Errors":   verr.Fields,
			}))
			return
		}
		h.log.Error("Signup failed", slog.String("error", err.Error()))
		_ = c.Error(err)
		render.ServerError(c)
		return
	}

	token, _, err := h.auth.Login(c.Request.Context(), user.Username, dto.Password)
	if err != nil {
		h.log.Warn("Signed up user could not be logged in", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		c.Redirect(http.StatusFound, "/auth/login/")
		return
	}

	h.cookie.set(c, token)
	c.Redirect(http.StatusFound, "/")
}
