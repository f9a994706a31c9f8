package group_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yatube-post-service/internal/application/validation"
	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	"yatube-post-service/internal/infrastructure/logger"
	group_repository_mock "yatube-post-service/mocks/group"
)

func TestGroupService_CreateGroup(t *testing.T) {
	tests := []struct {
		name    string
		dto     *model.CreateGroupDTO
		mocks   func(repo *group_repository_mock.Repository)
		wantErr error
	}{
		{
			name: "success",
			dto:  &model.CreateGroupDTO{Title: " Cats ", Slug: "cats", Description: "All about cats"},
			mocks: func(repo *group_repository_mock.Repository) {
				repo.On("Create", mock.Anything, &model.Group{Title: "Cats", Slug: "cats", Description: "All about cats"}).
					Return(&model.Group{ID: 1, Title: "Cats", Slug: "cats", Description: "All about cats"}, nil)
			},
		},
		{
			name:    "invalid slug",
			dto:     &model.CreateGroupDTO{Title: "Cats", Slug: "big cats", Description: "All about cats"},
			mocks:   func(repo *group_repository_mock.Repository) {},
			wantErr: custom_errors.ErrGroupValidation,
		},
		{
			name:    "missing title",
			dto:     &model.CreateGroupDTO{Slug: "cats", Description: "All about cats"},
			mocks:   func(repo *group_repository_mock.Repository) {},
			wantErr: custom_errors.ErrGroupValidation,
		},
		{
			name: "slug taken",
			dto:  &model.CreateGroupDTO{Title: "Cats", Slug: "cats", Description: "Again"},
			mocks: func(repo *group_repository_mock.Repository) {
				repo.On("Create", mock.Anything, mock.Anything).Return(nil, custom_errors.ErrGroupSlugTaken)
			},
			wantErr: custom_errors.ErrGroupSlugTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := group_repository_mock.NewRepository(t)
			tt.mocks(repo)
			svc := NewGroupService(repo, validation.New(), logger.New("test"))

			got, err := svc.CreateGroup(context.Background(), tt.dto)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
			assert.Equal(t, "Cats", got.Title)
		})
	}
}

func TestGroupService_DeleteGroup(t *testing.T) {
	repo := group_repository_mock.NewRepository(t)
	repo.On("Delete", mock.Anything, "cats").Return(nil)
	repo.On("Delete", mock.Anything, "nope").Return(custom_errors.ErrGroupNotFound)
	svc := NewGroupService(repo, validation.New(), logger.New("test"))

	assert.NoError(t, svc.DeleteGroup(context.Background(), "cats"))
	assert.ErrorIs(t, svc.DeleteGroup(context.Background(), "nope"), custom_errors.ErrGroupNotFound)
}

func TestGroupService_ListGroups(t *testing.T) {
	repo := group_repository_mock.NewRepository(t)
	repo.On("List", mock.Anything).Return([]*model.Group{{ID: 1, Slug: "cats"}, {ID: 2, Slug: "dogs"}}, nil)
	svc := NewGroupService(repo, validation.New(), logger.New("test"))

	groups, err := svc.ListGroups(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}
