package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	"yatube-post-service/internal/infrastructure/logger"
)

type stubIdentity map[string]*model.User

func (s stubIdentity) Identify(ctx context.Context, token string) (*model.User, error) {
	if user, ok := s[token]; ok {
		return user, nil
	}
	return nil, custom_errors.ErrInvalidToken
}

func TestLoginURL(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{next: "/create/", want: "/auth/login/?next=/create/"},
		{next: "/posts/1/edit/", want: "/auth/login/?next=/posts/1/edit/"},
		{next: "/create/?a=b", want: "/auth/login/?next=/create/%3Fa%3Db"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginURL(tt.next))
		})
	}
}

func TestIdentityAndRequireLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	leo := &model.User{ID: 1, Username: "leo"}

	r := gin.New()
	r.Use(Identity(stubIdentity{"good": leo}, "session", logger.New("test")))
	r.GET("/create/", RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})

	tests := []struct {
		name         string
		cookie       string
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{name: "anonymous", wantStatus: http.StatusFound, wantLocation: "/auth/login/?next=/create/"},
		{name: "stale session", cookie: "bad", wantStatus: http.StatusFound, wantLocation: "/auth/login/?next=/create/"},
		{name: "logged in", cookie: "good", wantStatus: http.StatusOK, wantBody: "leo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/create/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
