package group_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube-post-service/internal/custom_errors"
	model "yatube-post-service/internal/domain/models"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
)

type GroupRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewGroupRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *GroupRepository {
	return &GroupRepository{db: db, log: log, metrics: metrics}
}

func (g *GroupRepository) observe(queryType string, start time.Time, success bool) {
	g.metrics.IncrementDatabaseQueries(queryType, success)
	g.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (g *GroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	start := time.Now()
	g.log.Debug("Creating group", slog.String("slug", group.Slug))

	args := pgx.NamedArgs{
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}
	query := `INSERT INTO groups (title, slug, description)
		VALUES (@title, @slug, @description)
		RETURNING id, title, slug, description`

	var created model.Group
	err := g.db.QueryRow(ctx, query, args).Scan(&created.ID, &created.Title, &created.Slug, &created.Description)
	if err != nil {
		g.observe("group_create", start, false)
		if db.IsUniqueViolation(err) {
			g.log.Debug("Group slug already taken", slog.String("slug", group.Slug))
			return nil, custom_errors.ErrGroupSlugTaken
		}
		g.log.Error("Error creating group", slog.String("slug", group.Slug), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	g.observe("group_create", start, true)
	g.log.Debug("Successfully created group", slog.Int64("id", created.ID), slog.String("slug", created.Slug))
	return &created, nil
}

func (g *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	return g.getOne(ctx, "group_get_by_id", `SELECT id, title, slug, description FROM groups WHERE id = @id`,
		pgx.NamedArgs{"id": id}, slog.Int64("id", id))
}

func (g *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return g.getOne(ctx, "group_get_by_slug", `SELECT id, title, slug, description FROM groups WHERE slug = @slug`,
		pgx.NamedArgs{"slug": slug}, slog.String("slug", slug))
}

func (g *GroupRepository) getOne(ctx context.Context, queryType, query string, args pgx.NamedArgs, key slog.Attr) (*model.Group, error) {
	start := time.Now()

	var group model.Group
	err := g.db.QueryRow(ctx, query, args).Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		g.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			g.log.Debug("Group not found", key)
			return nil, custom_errors.ErrGroupNotFound
		}
		g.log.Error("Error getting group", key, slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	g.observe(queryType, start, true)
	return &group, nil
}

func (g *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	start := time.Now()

	rows, err := g.db.Query(ctx, `SELECT id, title, slug, description FROM groups ORDER BY title, id`)
	if err != nil {
		g.observe("group_list", start, false)
		g.log.Error("Error listing groups", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	groups := make([]*model.Group, 0)
	for rows.Next() {
		var group model.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			g.observe("group_list", start, false)
			g.log.Error("Error scanning group", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		g.observe("group_list", start, false)
		g.log.Error("Error iterating groups", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	g.observe("group_list", start, true)
	return groups, nil
}

// Delete relies on the posts.group_id ON DELETE SET NULL rule.
func (g *GroupRepository) Delete(ctx context.Context, slug string) error {
	start := time.Now()
	g.log.Debug("Deleting group", slog.String("slug", slug))

	result, err := g.db.Exec(ctx, `DELETE FROM groups WHERE slug = @slug`, pgx.NamedArgs{"slug": slug})
	if err != nil {
		g.observe("group_delete", start, false)
		g.log.Error("Error deleting group", slog.String("slug", slug), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		g.observe("group_delete", start, false)
		g.log.Debug("Group not found during deletion", slog.String("slug", slug))
		return custom_errors.ErrGroupNotFound
	}

	g.observe("group_delete", start, true)
	g.log.Debug("Successfully deleted group", slog.String("slug", slug))
	return nil
}
