package post_http

import (
	"context"
	"net/http"

	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

type PostLister interface {
	ListPosts(ctx context.Context, filter model.PostFilter, page int) (*model.Page, error)
}

type IndexHandler struct {
	posts PostLister
	log   ports.Logger
}

func NewIndexHandler(posts PostLister, log ports.Logger) *IndexHandler {
	return &IndexHandler{posts: posts, log: log}
}

func (h *IndexHandler) Index(c *gin.Context) {
	page, err := h.posts.ListPosts(c.Request.Context(), model.PostFilter{}, pageNumber(c))
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", render.Page(c, gin.H{"Page": page}))
}
