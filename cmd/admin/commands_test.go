package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth_service "yatube-post-service/internal/application/service/auth"
	group_service "yatube-post-service/internal/application/service/group"
	"yatube-post-service/internal/application/validation"
	"yatube-post-service/internal/custom_errors"
	"yatube-post-service/internal/infrastructure/logger"
	"yatube-post-service/internal/infrastructure/outbound/metrics/prometheus"
	"yatube-post-service/internal/infrastructure/outbound/repository/memory"
	session_memory "yatube-post-service/internal/infrastructure/outbound/session/memory"
)

type stubMigrator struct {
	calls  []string
	upErr  error
	closed bool
}

func (m *stubMigrator) Up() error {
	m.calls = append(m.calls, "up")
	return m.upErr
}

func (m *stubMigrator) Down() error {
	m.calls = append(m.calls, "down")
	return nil
}

func (m *stubMigrator) Close() error {
	m.closed = true
	return nil
}

func newTestRuntime(t *testing.T, m *stubMigrator) *runtime {
	t.Helper()
	log := logger.New("test")
	storage := memory.NewStorage()
	validate := validation.New()
	return &runtime{
		groups: group_service.NewGroupService(memory.NewGroupRepository(storage, log), validate, log),
		users: auth_service.NewAuthService(memory.NewUserRepository(storage, log), session_memory.NewSessionStore(),
			validate, []byte("secret"), time.Hour, log, prometheus.NewPrometheusMetricsProvider(),
			auth_service.WithPasswordCost(bcrypt.MinCost)),
		migrator: func() (schemaMigrator, error) { return m, nil },
	}
}

func execute(t *testing.T, rt *runtime, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(func(context.Context) (*runtime, error) { return rt, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGroupCommands(t *testing.T) {
	rt := newTestRuntime(t, &stubMigrator{})

	out, err := execute(t, rt, "group", "create", "--title", "Cats", "--slug", "cats", "--description", "All about cats")
	require.NoError(t, err)
	assert.Contains(t, out, `group "cats" created`)

	_, err = execute(t, rt, "group", "create", "--title", "Dogs", "--slug", "not a slug", "--description", "x")
	assert.ErrorIs(t, err, custom_errors.ErrGroupValidation)

	_, err = execute(t, rt, "group", "create", "--title", "Cats again", "--slug", "cats", "--description", "x")
	assert.ErrorIs(t, err, custom_errors.ErrGroupSlugTaken)

	out, err = execute(t, rt, "group", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "cats")
	assert.Contains(t, out, "Cats")

	out, err = execute(t, rt, "group", "delete", "--slug", "cats")
	require.NoError(t, err)
	assert.Contains(t, out, `group "cats" deleted`)

	_, err = execute(t, rt, "group", "delete", "--slug", "cats")
	assert.ErrorIs(t, err, custom_errors.ErrGroupNotFound)

	_, err = execute(t, rt, "group", "delete")
	assert.Error(t, err, "slug flag is required")
}

func TestUserCreateCommand(t *testing.T) {
	rt := newTestRuntime(t, &stubMigrator{})

	out, err := execute(t, rt, "user", "create", "--username", "leo", "--password", "war-and-peace")
	require.NoError(t, err)
	assert.Contains(t, out, `user "leo" created`)

	_, err = execute(t, rt, "user", "create", "--username", "leo", "--password", "war-and-peace")
	assert.ErrorIs(t, err, custom_errors.ErrUserValidation)

	_, err = execute(t, rt, "user", "create", "--username", "anna")
	assert.Error(t, err)
}

func TestMigrateCommands(t *testing.T) {
	t.Run("up and down", func(t *testing.T) {
		m := &stubMigrator{}
		rt := newTestRuntime(t, m)

		out, err := execute(t, rt, "migrate", "up")
		require.NoError(t, err)
		assert.Contains(t, out, "migrations applied")

		out, err = execute(t, rt, "migrate", "down")
		require.NoError(t, err)
		assert.Contains(t, out, "rolled back")

		assert.Equal(t, []string{"up", "down"}, m.calls)
		assert.True(t, m.closed)
	})

	t.Run("failure is returned", func(t *testing.T) {
		m := &stubMigrator{upErr: errors.New("dirty database")}
		_, err := execute(t, newTestRuntime(t, m), "migrate", "up")
		assert.EqualError(t, err, "dirty database")
		assert.True(t, m.closed)
	})
}

func TestRootCommand_LoadFailure(t *testing.T) {
	root := newRootCmd(func(context.Context) (*runtime, error) { return nil, errors.New("no config") })
	root.SetArgs([]string{"group", "list"})
	root.SetOut(&bytes.Buffer{})
	assert.EqualError(t, root.ExecuteContext(context.Background()), "no config")
}
