package post_http

import (
	"context"
	"log/slog"
	"net/http"

	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

type GroupPostLister interface {
	PostLister
	GetGroup(ctx context.Context, slug string) (*model.Group, error)
}

type GroupListHandler struct {
	posts GroupPostLister
	log   ports.Logger
}

func NewGroupListHandler(posts GroupPostLister, log ports.Logger) *GroupListHandler {
	return &GroupListHandler{posts: posts, log: log}
}

func (h *GroupListHandler) GroupList(c *gin.Context) {
	slug := c.Param("slug")

	group, err := h.posts.GetGroup(c.Request.Context(), slug)
	if err != nil {
		h.log.Debug("Group page lookup failed", slog.String("slug", slug), slog.String("error", err.Error()))
		renderError(c, h.log, err)
		return
	}

	page, err := h.posts.ListPosts(c.Request.Context(), model.PostFilter{GroupSlug: group.Slug}, pageNumber(c))
	if err != nil {
		renderError(c, h.log, err)
		return
	}

	c.HTML(http.StatusOK, "group_list.html", render.Page(c, gin.H{"Group": group, "Page": page}))
}
