package post_http

import (
	"context"
	"net/http"

	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

type AuthorPostLister interface {
	PostLister
	GetAuthor(ctx context.Context, username string) (*model.User, error)
}

type ProfileHandler struct {
	posts AuthorPostLister
	log   ports.Logger
}

func NewProfileHandler(posts AuthorPostLister, log ports.Logger) *ProfileHandler {
	return &ProfileHandler{posts: posts, log: log}
}

func (h *ProfileHandler) Profile(c *gin.Context) {
	author, err := h.posts.GetAuthor(c.Request.Context(), c.Param("username"))
	if err != nil {
		renderError(c, h.log, err)
		return
	}

	page, err := h.posts.ListPosts(c.Request.Context(), model.PostFilter{AuthorUsername: author.Username}, pageNumber(c))
	if err != nil {
		renderError(c, h.log, err)
		return
	}

	c.HTML(http.StatusOK, "profile.html", render.Page(c, gin.H{"Author": author, "Page": page}))
}
