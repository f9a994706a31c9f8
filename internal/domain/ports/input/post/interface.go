package post_service

import (
	"context"

	model "yatube-post-service/internal/domain/models"
)

type Service interface {
	ListPosts(ctx context.Context, filter model.PostFilter, page int) (*model.Page, error)
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.PostDetailed, error)
	UpdatePost(ctx context.Context, userID int64, id int64, post *model.UpdatePostDTO) (*model.PostDetailed, error)
	GetGroup(ctx context.Context, slug string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
	GetAuthor(ctx context.Context, username string) (*model.User, error)
}
