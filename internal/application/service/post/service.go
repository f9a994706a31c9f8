package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	group_repository "yatube-post-service/internal/domain/ports/output/group"
	post_repository "yatube-post-service/internal/domain/ports/output/post"
	user_repository "yatube-post-service/internal/domain/ports/output/user"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	postRepo  post_repository.Repository
	groupRepo group_repository.Repository
	userRepo  user_repository.Repository
	uow       ports.UnitOfWork
	validate  *validator.Validate
	log       ports.Logger
	metrics   ports.MetricsProvider
}

func NewPostService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	userRepo user_repository.Repository,
	uow ports.UnitOfWork,
	validate *validator.Validate,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *Service {
	return &Service{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		uow:       uow,
		validate:  validate,
		log:       log,
		metrics:   metrics,
	}
}

func (s *Service) ListPosts(ctx context.Context, filter model.PostFilter, page int) (*model.Page, error) {
	filters := model.PostFilters{}

	if filter.GroupSlug != "" {
		group, err := s.groupRepo.GetBySlug(ctx, filter.GroupSlug)
		if err != nil {
			s.logLookupError("group", filter.GroupSlug, err)
			return nil, err
		}
		filters.GroupID = &group.ID
	}

	if filter.AuthorUsername != "" {
		author, err := s.userRepo.GetByUsername(ctx, filter.AuthorUsername)
		if err != nil {
			s.logLookupError("author", filter.AuthorUsername, err)
			return nil, err
		}
		filters.AuthorID = &author.ID
	}

	result := model.NewPage(page, model.PostsPerPage, 0)
	limit, offset := result.Size, result.Offset()
	filters.Limit = &limit
	filters.Offset = &offset

	posts, total, err := s.postRepo.List(ctx, filters)
	if err != nil {
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("list", false)
		return nil, err
	}

	result = model.NewPage(result.Number, model.PostsPerPage, total)
	result.Items = append(result.Items, posts...)

	s.metrics.IncrementPostOperations("list", true)
	s.log.Debug("Listed posts",
		slog.String("group", filter.GroupSlug),
		slog.String("author", filter.AuthorUsername),
		slog.Int("page", result.Number),
		slog.Int("count", len(result.Items)),
		slog.Int("total", total))
	return result, nil
}

func (s *Service) GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			s.log.Debug("Post not found", slog.Int64("id", id))
		default:
			s.log.Error("Failed to get post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}

	count, err := s.postRepo.CountByAuthor(ctx, post.Post.AuthorID)
	if err != nil {
		s.log.Error("Failed to count author posts", slog.Int64("author_id", post.Post.AuthorID), slog.String("error", err.Error()))
		return nil, err
	}
	post.AuthorPostsCount = count
	return post, nil
}

func (s *Service) CreatePost(ctx context.Context, post *model.CreatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("create", err == nil) }()

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var txCommitted bool
	defer func() {
		if !txCommitted {
			s.rollback(ctx, tx)
		}
	}()

	text, err := s.validatePostInput(ctx, tx.GroupRepository(), post.Text, post.GroupID)
	if err != nil {
		return nil, err
	}

	postRepo := tx.PostRepository()
	created, err := postRepo.Create(ctx, &model.Post{
		AuthorID: post.AuthorID,
		Text:     text,
		GroupID:  post.GroupID,
	})
	if err != nil {
		return nil, s.writeError("create", post.AuthorID, err)
	}

	detailed, err := postRepo.GetByID(ctx, created.ID)
	if err != nil {
		s.log.Error("Failed to reload created post", slog.Int64("id", created.ID), slog.String("error", err.Error()))
		return nil, err
	}

	if err = s.commit(ctx, tx); err != nil {
		return nil, err
	}
	txCommitted = true

	s.log.Info("Post created", slog.Int64("id", created.ID), slog.Int64("author_id", created.AuthorID))
	return detailed, nil
}

func (s *Service) UpdatePost(ctx context.Context, userID int64, id int64, post *model.UpdatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("update", err == nil) }()

	existing, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for update", slog.Int64("id", id))
		} else {
			s.log.Error("Failed to load post for update", slog.Int64("id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}

	if existing.Post.AuthorID != userID {
		s.log.Debug("User is not the author of the post",
			slog.Int64("id", id),
			slog.Int64("user_id", userID),
			slog.Int64("author_id", existing.Post.AuthorID))
		return nil, custom_errors.ErrForbidden
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var txCommitted bool
	defer func() {
		if !txCommitted {
			s.rollback(ctx, tx)
		}
	}()

	text, err := s.validatePostInput(ctx, tx.GroupRepository(), post.Text, post.GroupID)
	if err != nil {
		return nil, err
	}

	postRepo := tx.PostRepository()
	if _, err = postRepo.Update(ctx, id, &model.UpdatePostDTO{Text: text, GroupID: post.GroupID}); err != nil {
		return nil, s.writeError("update", userID, err)
	}

	detailed, err := postRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to reload updated post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}

	if err = s.commit(ctx, tx); err != nil {
		return nil, err
	}
	txCommitted = true

	s.log.Info("Post updated", slog.Int64("id", id), slog.Int64("author_id", userID))
	return detailed, nil
}

func (s *Service) GetGroup(ctx context.Context, slug string) (*model.Group, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		s.logLookupError("group", slug, err)
		return nil, err
	}
	return group, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list groups", slog.String("error", err.Error()))
		return nil, err
	}
	return groups, nil
}

func (s *Service) GetAuthor(ctx context.Context, username string) (*model.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.logLookupError("author", username, err)
		return nil, err
	}
	return author, nil
}

func (s *Service) logLookupError(kind, key string, err error) {
	if errors.Is(err, custom_errors.ErrGroupNotFound) || errors.Is(err, custom_errors.ErrUserNotFound) {
		s.log.Debug("Lookup miss", slog.String("kind", kind), slog.String("key", key))
		return
	}
	s.log.Error("Lookup failed", slog.String("kind", kind), slog.String("key", key), slog.String("error", err.Error()))
}

// writeError maps a failed post write; a group deleted between validation and
// the write surfaces as a field error rather than a server error.
func (s *Service) writeError(op string, userID int64, err error) error {
	if errors.Is(err, custom_errors.ErrGroupNotFound) {
		verr := custom_errors.NewValidationError(custom_errors.ErrPostValidation)
		verr.Add("group", invalidGroupMessage)
		return verr
	}
	if errors.Is(err, custom_errors.ErrPostNotFound) {
		s.log.Debug("Post vanished during write", slog.String("op", op))
		return err
	}
	s.log.Error("Failed to write post", slog.String("op", op), slog.Int64("user_id", userID), slog.String("error", err.Error()))
	return custom_errors.ErrDatabaseQuery
}

func (s *Service) commit(ctx context.Context, tx ports.Transaction) error {
	if err := tx.Commit(ctx); err != nil {
		if strings.Contains(err.Error(), "commit unexpectedly resulted in rollback") {
			s.log.Warn("Transaction commit resulted in rollback", slog.String("error", err.Error()))
		} else {
			s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		}
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

func (s *Service) rollback(ctx context.Context, tx ports.Transaction) {
	if err := tx.Rollback(ctx); err != nil {
		if strings.Contains(err.Error(), "tx is closed") {
			s.log.Debug("Transaction already closed during rollback", slog.String("error", err.Error()))
			return
		}
		s.log.Error("Failed to rollback transaction", slog.String("error", err.Error()))
	}
}
