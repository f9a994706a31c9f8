package memory

import (
	"context"
	"log/slog"
	"sort"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"

	"github.com/jackc/pgx/v5/pgtype"
)

type PostRepository struct {
	log     ports.Logger
	storage *Storage
}

func NewPostRepository(storage *Storage, log ports.Logger) *PostRepository {
	return &PostRepository{log: log, storage: storage}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	s := p.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		p.log.Debug("Post author not found", slog.Int64("author_id", post.AuthorID))
		return nil, custom_errors.ErrUserNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			p.log.Debug("Post group not found", slog.Int64("group_id", *post.GroupID))
			return nil, custom_errors.ErrGroupNotFound
		}
	}

	newPost := &model.Post{
		ID:       s.nextPostID,
		Text:     post.Text,
		PubDate:  pgtype.Timestamptz{Time: s.now(), Valid: true},
		AuthorID: post.AuthorID,
		GroupID:  copyID(post.GroupID),
	}
	s.nextPostID++
	s.posts[newPost.ID] = newPost

	result := *newPost
	result.GroupID = copyID(newPost.GroupID)
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.PostDetailed, error) {
	s := p.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}
	return s.detailedLocked(post), nil
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	s := p.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Text == "" {
		return nil, custom_errors.ErrNoUpdateRows
	}

	post, exists := s.posts[id]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}
	if update.GroupID != nil {
		if _, ok := s.groups[*update.GroupID]; !ok {
			return nil, custom_errors.ErrGroupNotFound
		}
	}

	post.Text = update.Text
	post.GroupID = copyID(update.GroupID)

	result := *post
	result.GroupID = copyID(post.GroupID)
	return &result, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.PostDetailed, int, error) {
	s := p.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []*model.Post
	for _, post := range s.posts {
		if filters.AuthorID != nil && post.AuthorID != *filters.AuthorID {
			continue
		}
		if filters.GroupID != nil && (post.GroupID == nil || *post.GroupID != *filters.GroupID) {
			continue
		}
		filtered = append(filtered, post)
	}

	sort.Slice(filtered, func(i, j int) bool {
		ti, tj := filtered[i].PubDate.Time, filtered[j].PubDate.Time
		if ti.Equal(tj) {
			return filtered[i].ID > filtered[j].ID
		}
		return ti.After(tj)
	})

	total := len(filtered)

	if filters.Offset != nil {
		offset := *filters.Offset
		if offset >= len(filtered) {
			return []*model.PostDetailed{}, total, nil
		}
		filtered = filtered[offset:]
	}
	if filters.Limit != nil && *filters.Limit < len(filtered) {
		filtered = filtered[:*filters.Limit]
	}

	result := make([]*model.PostDetailed, 0, len(filtered))
	for _, post := range filtered {
		result = append(result, s.detailedLocked(post))
	}
	return result, total, nil
}

func (p *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	s := p.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, post := range s.posts {
		if post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
