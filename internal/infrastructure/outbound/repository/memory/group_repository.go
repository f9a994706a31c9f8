package memory

import (
	"context"
	"log/slog"
	"sort"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
)

type GroupRepository struct {
	log     ports.Logger
	storage *Storage
}

func NewGroupRepository(storage *Storage, log ports.Logger) *GroupRepository {
	return &GroupRepository{log: log, storage: storage}
}

func (g *GroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	s := g.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.groupBySlugLocked(group.Slug) != nil {
		g.log.Debug("Group slug already taken", slog.String("slug", group.Slug))
		return nil, custom_errors.ErrGroupSlugTaken
	}

	newGroup := &model.Group{
		ID:          s.nextGroupID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
	s.nextGroupID++
	s.groups[newGroup.ID] = newGroup

	result := *newGroup
	return &result, nil
}

func (g *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	s := g.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		g.log.Debug("Group not found", slog.Int64("id", id))
		return nil, custom_errors.ErrGroupNotFound
	}
	result := *group
	return &result, nil
}

func (g *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	s := g.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	group := s.groupBySlugLocked(slug)
	if group == nil {
		g.log.Debug("Group not found", slog.String("slug", slug))
		return nil, custom_errors.ErrGroupNotFound
	}
	result := *group
	return &result, nil
}

func (g *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	s := g.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*model.Group, 0, len(s.groups))
	for _, group := range s.groups {
		groupCopy := *group
		groups = append(groups, &groupCopy)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Title == groups[j].Title {
			return groups[i].ID < groups[j].ID
		}
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}

func (g *GroupRepository) Delete(ctx context.Context, slug string) error {
	s := g.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	group := s.groupBySlugLocked(slug)
	if group == nil {
		return custom_errors.ErrGroupNotFound
	}

	for _, post := range s.posts {
		if post.GroupID != nil && *post.GroupID == group.ID {
			post.GroupID = nil
		}
	}
	delete(s.groups, group.ID)

	g.log.Debug("Deleted group", slog.String("slug", slug))
	return nil
}
