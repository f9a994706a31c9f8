package group_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yatube-post-service/internal/application/validation"
	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	group_repository "yatube-post-service/internal/domain/ports/output/group"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	groupRepo group_repository.Repository
	validate  *validator.Validate
	log       ports.Logger
}

func NewGroupService(groupRepo group_repository.Repository, validate *validator.Validate, log ports.Logger) *Service {
	return &Service{groupRepo: groupRepo, validate: validate, log: log}
}

func (s *Service) CreateGroup(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error) {
	input := model.CreateGroupDTO{
		Title:       strings.TrimSpace(group.Title),
		Slug:        strings.TrimSpace(group.Slug),
		Description: strings.TrimSpace(group.Description),
	}

	if err := s.validate.Struct(&input); err != nil {
		verr := custom_errors.NewValidationError(custom_errors.ErrGroupValidation)
		for field, msg := range validation.FieldMessages(err) {
			verr.Add(field, msg)
		}
		s.log.Debug("Group input rejected", slog.String("error", verr.Error()))
		return nil, verr
	}

	created, err := s.groupRepo.Create(ctx, &model.Group{
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
	})
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupSlugTaken) {
			s.log.Debug("Group slug taken", slog.String("slug", input.Slug))
			return nil, err
		}
		s.log.Error("Failed to create group", slog.String("slug", input.Slug), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("Group created", slog.Int64("id", created.ID), slog.String("slug", created.Slug))
	return created, nil
}

func (s *Service) DeleteGroup(ctx context.Context, slug string) error {
	if err := s.groupRepo.Delete(ctx, slug); err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			s.log.Debug("Group not found for delete", slog.String("slug", slug))
			return err
		}
		s.log.Error("Failed to delete group", slog.String("slug", slug), slog.String("error", err.Error()))
		return err
	}

	s.log.Info("Group deleted", slog.String("slug", slug))
	return nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list groups", slog.String("error", err.Error()))
		return nil, err
	}
	return groups, nil
}
