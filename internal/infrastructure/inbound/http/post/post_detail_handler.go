package post_http

import (
	"context"
	"net/http"

	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

type PostGetter interface {
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
}

type PostDetailHandler struct {
	posts PostGetter
	log   ports.Logger
}

func NewPostDetailHandler(posts PostGetter, log ports.Logger) *PostDetailHandler {
	return &PostDetailHandler{posts: posts, log: log}
}

func (h *PostDetailHandler) PostDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		render.NotFound(c)
		return
	}

	post, err := h.posts.GetPostByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.log, err)
		return
	}

	c.HTML(http.StatusOK, "post_detail.html", render.Page(c, gin.H{"Post": post}))
}
