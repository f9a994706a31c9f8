package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"yatube-post-service/internal/infrastructure/outbound/repository/postgres/db"
)

func TestViolationHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, db.IsUniqueViolation(unique))
	assert.False(t, db.IsForeignKeyViolation(unique))
	assert.True(t, db.IsForeignKeyViolation(fk))
	assert.False(t, db.IsUniqueViolation(fk))
	assert.False(t, db.IsUniqueViolation(errors.New("boom")))
}
