package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func (c *Cli) moderationCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "moderation", Short: "Moderation log (admin)"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List moderation log entries",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/admin/moderation"), func(ctx context.Context, _ []string) error {
			logs, err := c.app.Stores.Moderation.FetchAll(ctx)
			if err != nil {
				return failure("failed to fetch moderation logs", err)
			}
			if len(logs) == 0 {
				c.io.Println("Moderation log is empty.")
				return nil
			}
			rows := make([][]string, 0, len(logs))
			for _, l := range logs {
				rows = append(rows, []string{l.ID, l.EntityType, l.EntityID, orDash(l.ModerationAction), orDash(l.Reason), formatTime(l.ModerationDate)})
			}
			return c.table("ID\tENTITY\tENTITY ID\tACTION\tREASON\tDATE", rows)
		}),
	}

	cmd.AddCommand(list)
	return cmd
}

func (c *Cli) usersCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "User management (admin)"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/admin/users"), func(ctx context.Context, _ []string) error {
			users, err := c.app.Stores.Users.FetchAll(ctx)
			if err != nil {
				return failure("failed to fetch users", err)
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.Username, u.Email, strings.Join(u.Roles, ",")})
			}
			return c.table("ID\tUSERNAME\tEMAIL\tROLES", rows)
		}),
	}

	del := &cobra.Command{
		Use:   "delete <userId>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/admin/users"), func(ctx context.Context, args []string) error {
			if err := c.app.Stores.Users.Delete(ctx, args[0]); err != nil {
				return failure("failed to delete user", err)
			}
			c.io.Printf("✓ User %s deleted\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(list, del)
	return cmd
}
