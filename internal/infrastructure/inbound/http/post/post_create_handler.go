package post_http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/middleware"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

type PostCreator interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.PostDetailed, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
}

type PostCreateHandler struct {
	posts PostCreator
	log   ports.Logger
}

func NewPostCreateHandler(posts PostCreator, log ports.Logger) *PostCreateHandler {
	return &PostCreateHandler{posts: posts, log: log}
}

func (h *PostCreateHandler) Form(c *gin.Context) {
	h.render(c, postForm{}, map[string]string{})
}

func (h *PostCreateHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	form := bindPostForm(c)

	created, err := h.posts.CreatePost(c.Request.Context(), &model.CreatePostDTO{
		AuthorID: user.ID,
		Text:     form.Text,
		GroupID:  form.groupID(),
	})
	if err != nil {
		if fields, ok := validationFields(err); ok {
			h.render(c, form, fields)
			return
		}
		renderError(c, h.log, err)
		return
	}

	h.log.Debug("Post created from form", slog.Int64("id", created.Post.ID), slog.Int64("author_id", user.ID))
	c.Redirect(http.StatusFound, "/profile/"+url.PathEscape(user.Username)+"/")
}

func (h *PostCreateHandler) render(c *gin.Context, form postForm, errs map[string]string) {
	groups, err := h.posts.ListGroups(c.Request.Context())
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, "create_post.html", render.Page(c, gin.H{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": false,
		"Action": "/create/",
	}))
}
