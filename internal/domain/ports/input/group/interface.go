package group_service

import (
	"context"

	model "yatube-post-service/internal/domain/models"
)

type Service interface {
	CreateGroup(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error)
	DeleteGroup(ctx context.Context, slug string) error
	ListGroups(ctx context.Context) ([]*model.Group, error)
}
