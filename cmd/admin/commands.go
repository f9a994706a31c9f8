package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	model "yatube-post-service/internal/domain/models"
	group_service "yatube-post-service/internal/domain/ports/input/group"
)

type userCreator interface {
	Signup(ctx context.Context, signup *model.SignupDTO) (*model.User, error)
}

type schemaMigrator interface {
	Up() error
	Down() error
	Close() error
}

type runtime struct {
	groups   group_service.Service
	users    userCreator
	migrator func() (schemaMigrator, error)
	close    func()
}

type loader func(ctx context.Context) (*runtime, error)

func newRootCmd(load loader) *cobra.Command {
	var rt *runtime

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administrative tasks for the yatube post service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			rt, err = load(cmd.Context())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt != nil && rt.close != nil {
				rt.close()
			}
		},
	}

	current := func() *runtime { return rt }
	root.AddCommand(newMigrateCmd(current), newGroupCmd(current), newUserCmd(current))
	return root
}

func newMigrateCmd(rt func() *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(apply func(schemaMigrator) error, done string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, err := rt().migrator()
			if err != nil {
				return err
			}
			defer m.Close()
			if err := apply(m); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), done)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  run(schemaMigrator.Up, "migrations applied"),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE:  run(schemaMigrator.Down, "latest migration rolled back"),
		},
	)
	return cmd
}

func newGroupCmd(rt func() *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}

	var dto model.CreateGroupDTO
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := rt().groups.CreateGroup(cmd.Context(), &dto)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "group %q created with id %d\n", group.Slug, group.ID)
			return nil
		},
	}
	create.Flags().StringVar(&dto.Title, "title", "", "group title")
	create.Flags().StringVar(&dto.Slug, "slug", "", "unique slug used in /group/<slug>/")
	create.Flags().StringVar(&dto.Description, "description", "", "group description")

	var slug string
	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a group; its posts stay without a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt().groups.DeleteGroup(cmd.Context(), slug); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "group %q deleted\n", slug)
			return nil
		},
	}
	remove.Flags().StringVar(&slug, "slug", "", "slug of the group to delete")
	_ = remove.MarkFlagRequired("slug")

	list := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := rt().groups.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(create, remove, list)
	return cmd
}

func newUserCmd(rt func() *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var dto model.SignupDTO
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt().users.Signup(cmd.Context(), &dto)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %q created with id %d\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&dto.Username, "username", "", "login name")
	create.Flags().StringVar(&dto.Password, "password", "", "password, at least 8 characters")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
