package post_http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/middleware"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

type PostEditor interface {
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
	UpdatePost(ctx context.Context, userID int64, id int64, post *model.UpdatePostDTO) (*model.PostDetailed, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
}

type PostEditHandler struct {
	posts PostEditor
	log   ports.Logger
}

func NewPostEditHandler(posts PostEditor, log ports.Logger) *PostEditHandler {
	return &PostEditHandler{posts: posts, log: log}
}

// load returns the post only when the current user may edit it; otherwise
// the response has already been written.
func (h *PostEditHandler) load(c *gin.Context) (*model.PostDetailed, bool) {
	id, ok := postID(c)
	if !ok {
		render.NotFound(c)
		return nil, false
	}

	post, err := h.posts.GetPostByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.log, err)
		return nil, false
	}

	user := middleware.CurrentUser(c)
	if post.Post.AuthorID != user.ID {
		h.log.Debug("Non-author tried to edit post", slog.Int64("id", id), slog.Int64("user_id", user.ID))
		c.Redirect(http.StatusFound, detailURL(id))
		return nil, false
	}
	return post, true
}

func (h *PostEditHandler) Form(c *gin.Context) {
	post, ok := h.load(c)
	if !ok {
		return
	}

	form := postForm{Text: post.Post.Text}
	if post.Post.GroupID != nil {
		form.Group = fmt.Sprint(*post.Post.GroupID)
	}
	h.render(c, post.Post.ID, form, map[string]string{})
}

func (h *PostEditHandler) Edit(c *gin.Context) {
	post, ok := h.load(c)
	if !ok {
		return
	}
	id := post.Post.ID
	form := bindPostForm(c)

	user := middleware.CurrentUser(c)
	_, err := h.posts.UpdatePost(c.Request.Context(), user.ID, id, &model.UpdatePostDTO{Text: form.Text, GroupID: form.groupID()})
	if err != nil {
		if fields, ok := validationFields(err); ok {
			h.render(c, id, form, fields)
			return
		}
		if errors.Is(err, custom_errors.ErrForbidden) {
			c.Redirect(http.StatusFound, detailURL(id))
			return
		}
		renderError(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, detailURL(id))
}

func (h *PostEditHandler) render(c *gin.Context, id int64, form postForm, errs map[string]string) {
	groups, err := h.posts.ListGroups(c.Request.Context())
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, "create_post.html", render.Page(c, gin.H{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": true,
		"Action": fmt.Sprintf("/posts/%d/edit/", id),
	}))
}

func detailURL(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}
