package memory

import (
	"sync"
	"time"

	model "yatube-post-service/internal/domain/models"
)

// Storage is the shared in-memory dataset; the repositories built on it keep
// the same referential rules as the SQL schema.
type Storage struct {
	mu sync.RWMutex

	posts  map[int64]*model.Post
	groups map[int64]*model.Group
	users  map[int64]*model.User

	nextPostID  int64
	nextGroupID int64
	nextUserID  int64

	now func() time.Time
}

type Option func(*Storage)

// WithClock replaces time.Now, mostly so tests get distinct publication dates.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

func NewStorage(opts ...Option) *Storage {
	s := &Storage{
		posts:       make(map[int64]*model.Post),
		groups:      make(map[int64]*model.Group),
		users:       make(map[int64]*model.User),
		nextPostID:  1,
		nextGroupID: 1,
		nextUserID:  1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) groupBySlugLocked(slug string) *model.Group {
	for _, g := range s.groups {
		if g.Slug == slug {
			return g
		}
	}
	return nil
}

func (s *Storage) detailedLocked(post *model.Post) *model.PostDetailed {
	postCopy := *post
	if post.GroupID != nil {
		groupID := *post.GroupID
		postCopy.GroupID = &groupID
	}

	detailed := &model.PostDetailed{Post: &postCopy}
	if author, ok := s.users[post.AuthorID]; ok {
		authorCopy := *author
		detailed.Author = &authorCopy
	}
	if post.GroupID != nil {
		if group, ok := s.groups[*post.GroupID]; ok {
			groupCopy := *group
			detailed.Group = &groupCopy
		}
	}
	return detailed
}
