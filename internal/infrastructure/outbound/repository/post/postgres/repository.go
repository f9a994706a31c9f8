package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const detailedSelect = `SELECT p.id, p.text, p.pub_date, p.author_id, p.group_id,
		u.id, u.username, u.created_at,
		g.id, g.title, g.slug, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.Int64("author_id", post.AuthorID), slog.Any("group_id", post.GroupID))

	args := pgx.NamedArgs{
		"text":      post.Text,
		"pub_date":  pgtype.Timestamptz{Time: time.Now(), Valid: true},
		"author_id": post.AuthorID,
		"group_id":  post.GroupID,
	}

	query := `
		INSERT INTO posts (text, pub_date, author_id, group_id)
		VALUES (@text, @pub_date, @author_id, @group_id)
		RETURNING id, text, pub_date, author_id, group_id`

	var createdPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&createdPost.ID,
		&createdPost.Text,
		&createdPost.PubDate,
		&createdPost.AuthorID,
		&createdPost.GroupID,
	)
	if err != nil {
		p.observe("post_create", start, false)
		if db.IsForeignKeyViolation(err) {
			p.log.Debug("Post references missing group or author", slog.String("error", err.Error()))
			return nil, custom_errors.ErrGroupNotFound
		}
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	p.log.Debug("Successfully created post", slog.Int64("id", createdPost.ID), slog.Int64("author_id", createdPost.AuthorID))
	return &createdPost, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.PostDetailed, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.Int64("id", id))

	query := detailedSelect + ` WHERE p.id = @id`
	post, err := scanDetailed(p.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		p.observe("post_get_by_id", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_get_by_id", start, true)
	p.log.Debug("Successfully retrieved post by ID", slog.Int64("id", post.Post.ID), slog.Int64("author_id", post.Post.AuthorID))
	return post, nil
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.Int64("id", id), slog.Any("group_id", update.GroupID))

	if update.Text == "" {
		p.observe("post_update", start, false)
		p.log.Debug("No text to update", slog.Int64("id", id))
		return nil, custom_errors.ErrNoUpdateRows
	}

	args := pgx.NamedArgs{
		"id":       id,
		"text":     update.Text,
		"group_id": update.GroupID,
	}
	query := `UPDATE posts SET text = @text, group_id = @group_id WHERE id = @id
		RETURNING id, text, pub_date, author_id, group_id`

	var updatedPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&updatedPost.ID,
		&updatedPost.Text,
		&updatedPost.PubDate,
		&updatedPost.AuthorID,
		&updatedPost.GroupID,
	)
	if err != nil {
		p.observe("post_update", start, false)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			p.log.Debug("Post not found by id during Update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		case db.IsForeignKeyViolation(err):
			p.log.Debug("Post update references missing group", slog.Int64("id", id), slog.String("error", err.Error()))
			return nil, custom_errors.ErrGroupNotFound
		default:
			p.log.Error("Error updating post", slog.Int64("id", id), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	p.observe("post_update", start, true)
	p.log.Debug("Successfully updated post", slog.Int64("id", updatedPost.ID), slog.Int64("author_id", updatedPost.AuthorID))
	return &updatedPost, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.PostDetailed, int, error) {
	start := time.Now()
	p.log.Debug("Listing posts with filters",
		slog.Any("author_id", filters.AuthorID),
		slog.Any("group_id", filters.GroupID),
		slog.Any("limit", filters.Limit),
		slog.Any("offset", filters.Offset))

	args := pgx.NamedArgs{}
	whereClauses := []string{}

	if filters.AuthorID != nil {
		whereClauses = append(whereClauses, "p.author_id = @author_id")
		args["author_id"] = *filters.AuthorID
	}
	if filters.GroupID != nil {
		whereClauses = append(whereClauses, "p.group_id = @group_id")
		args["group_id"] = *filters.GroupID
	}

	condition := ""
	if len(whereClauses) > 0 {
		condition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts p" + condition
	if err := p.db.QueryRow(ctx, countQuery, args).Scan(&total); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	query := detailedSelect + condition + " ORDER BY p.pub_date DESC, p.id DESC"

	listArgs := make(pgx.NamedArgs, len(args)+2)
	for k, v := range args {
		listArgs[k] = v
	}
	if filters.Limit != nil {
		query += " LIMIT @limit"
		listArgs["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		listArgs["offset"] = *filters.Offset
	}

	p.log.Debug("Executing list query", slog.String("query", query))
	rows, err := p.db.Query(ctx, query, listArgs)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := make([]*model.PostDetailed, 0)
	for rows.Next() {
		post, err := scanDetailed(rows)
		if err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseQuery
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_list", start, true)
	p.log.Debug("Retrieved posts in List", slog.Int("count", len(posts)), slog.Int("total", total))
	return posts, total, nil
}

func (p *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	start := time.Now()

	var count int
	err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = @author_id`,
		pgx.NamedArgs{"author_id": authorID}).Scan(&count)
	if err != nil {
		p.observe("post_count_by_author", start, false)
		p.log.Error("Error counting posts by author", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_count_by_author", start, true)
	return count, nil
}

func scanDetailed(row pgx.Row) (*model.PostDetailed, error) {
	var (
		post   model.Post
		author model.User

		groupID          *int64
		groupTitle       *string
		groupSlug        *string
		groupDescription *string
	)

	err := row.Scan(
		&post.ID,
		&post.Text,
		&post.PubDate,
		&post.AuthorID,
		&post.GroupID,
		&author.ID,
		&author.Username,
		&author.CreatedAt,
		&groupID,
		&groupTitle,
		&groupSlug,
		&groupDescription,
	)
	if err != nil {
		return nil, err
	}

	detailed := &model.PostDetailed{Post: &post, Author: &author}
	if groupID != nil {
		detailed.Group = &model.Group{
			ID:          *groupID,
			Title:       deref(groupTitle),
			Slug:        deref(groupSlug),
			Description: deref(groupDescription),
		}
	}
	return detailed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
