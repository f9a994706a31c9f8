package post_repository

import (
	"context"

	model "yatube-post-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.PostDetailed, error)
	Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error)
	List(ctx context.Context, filters model.PostFilters) ([]*model.PostDetailed, int, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}
