package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/nihongo/internal/client/router"
	"github.com/iudanet/nihongo/internal/validation"
)

// PasswordEnv overrides every other password source.
const PasswordEnv = "NIHONGO_PASSWORD"

type passwords struct {
	FromFile string
	FromArgs string
}

// readPassword retrieves the account password with priority:
// 1. Environment variable NIHONGO_PASSWORD
// 2. File given by --password-file
// 3. --password
// 4. Interactive prompt (fallback)
func (c *Cli) readPassword(p passwords) (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if p.FromFile != "" {
		content, err := os.ReadFile(p.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if p.FromArgs != "" {
		return p.FromArgs, nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func (c *Cli) prompt(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := c.io.ReadInput(label)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}
	*value = v
	return nil
}

func addPasswordFlags(cmd *cobra.Command, p *passwords) {
	cmd.Flags().StringVar(&p.FromFile, "password-file", "", "Read the password from a file")
	cmd.Flags().StringVar(&p.FromArgs, "password", "", "Password (not recommended, use NIHONGO_PASSWORD or --password-file)")
}

func (c *Cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Annotations: map[string]string{"offline": "true"},
		Args:        cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.io.Println("Nihongo Client")
			c.io.Printf("Version:    %s\n", c.build.Version)
			c.io.Printf("Build Date: %s\n", c.build.BuildDate)
			c.io.Printf("Git Commit: %s\n", c.build.GitCommit)
		},
	}
}

func (c *Cli) registerCommand() *cobra.Command {
	var (
		username, email string
		pw              passwords
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/register"), func(ctx context.Context, _ []string) error {
			c.title("Register")
			if err := c.prompt(&username, "Username: "); err != nil {
				return err
			}
			if err := c.prompt(&email, "Email: "); err != nil {
				return err
			}
			password, err := c.readPassword(pw)
			if err != nil {
				return err
			}
			if err := validation.ValidateRegistration(username, email, password); err != nil {
				return err
			}

			resp, err := c.app.Session.Register(ctx, username, email, password)
			if err != nil {
				return rejected("registration failed", err)
			}

			c.io.Println()
			c.io.Println("✓ " + resp.Message)
			c.io.Println("Run 'nihongo login' to sign in.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	addPasswordFlags(cmd, &pw)
	return cmd
}

func (c *Cli) loginCommand() *cobra.Command {
	var (
		email string
		pw    passwords
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session locally",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/login"), func(ctx context.Context, _ []string) error {
			c.title("Login")
			if err := c.prompt(&email, "Email: "); err != nil {
				return err
			}
			password, err := c.readPassword(pw)
			if err != nil {
				return err
			}

			c.io.Println("Authenticating...")
			user, err := c.app.Session.Login(ctx, email, password)
			if err != nil {
				return rejected("login failed", err)
			}

			c.io.Println()
			c.io.Println("✓ Login successful!")
			c.io.Printf("Username: %s\n", user.Username)
			c.io.Printf("Roles:    %s\n", strings.Join(c.app.Session.Roles(), ", "))
			if exp, ok := c.app.Session.ExpiresAt(); ok {
				c.io.Printf("Token expires: %s\n", exp.Format(time.RFC3339))
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Email")
	addPasswordFlags(cmd, &pw)
	return cmd
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Session.IsAuthenticated() {
				c.io.Println("Not logged in.")
				return nil
			}
			if err := c.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			c.io.Println("✓ Logged out.")
			return nil
		},
	}
}

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.title("Authentication Status")

			s := c.app.Session
			if !s.IsAuthenticated() {
				c.io.Println("Status: Not authenticated")
				c.io.Println()
				c.io.Println("Run 'nihongo login' to authenticate.")
				return nil
			}

			c.io.Println("Status: Authenticated")
			c.io.Printf("Username: %s\n", s.User().Username)
			c.io.Printf("Roles:    %s\n", strings.Join(s.Roles(), ", "))
			c.io.Printf("Server:   %s\n", c.app.Client.BaseURL())

			exp, ok := s.ExpiresAt()
			if !ok {
				return nil
			}
			c.io.Printf("Token expires: %s\n", exp.Format(time.RFC3339))
			if remaining := time.Until(exp); remaining > 0 {
				c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
			} else {
				c.io.Println("⚠️  Token has expired. Please login again.")
			}
			return nil
		},
	}
}

func (c *Cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user's profile from the server",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/profile"), func(ctx context.Context, _ []string) error {
			u, err := c.app.Stores.Users.FetchCurrentUser(ctx)
			if err != nil {
				return failure("failed to fetch profile", err)
			}
			return c.render(userTemplate, u)
		}),
	}
}

func (c *Cli) navCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Show where navigating to a view path would land",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.app.Router.Navigate(args[0])
			c.io.Printf("Requested: %s (%s)\n", m.Requested.Name, m.Requested.Path)
			if m.Decision.Allowed() {
				c.io.Printf("Decision:  allow\n")
			} else {
				c.io.Printf("Decision:  redirect to %s\n", m.Decision.Redirect)
			}
			c.io.Printf("Route:     %s\n", m.Route.Name)
			if m.Route.Name == router.NotFound {
				return nil
			}
			for _, k := range sortedKeys(m.Params) {
				c.io.Printf("  %s = %s\n", k, m.Params[k])
			}
			return nil
		},
	}
}
