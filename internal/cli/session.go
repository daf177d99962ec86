package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkveo/internal/core"
	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// CredentialOptions holds the flags shared by login and register.
type CredentialOptions struct {
	*RootOptions
	Email    string
	Password string
	Confirm  string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CredentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in with email and password. The session is written to the
credential store and reused by later commands.

When --password is omitted it is read from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "account email (required)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runLogin(opts *CredentialOptions, cmd *cobra.Command) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	if opts.Password == "" {
		opts.Password = readLine(in)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
		s, err := c.Login(ctx, opts.Email, opts.Password)
		if err != nil {
			return err
		}
		return out.Emit(s, func(w io.Writer) error { return writeSession(w, s) })
	})
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CredentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. Registration does not log in.

When --password is omitted, the password and its confirmation are read
from the first two lines of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "account email (required)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&opts.Confirm, "confirm", "", "password confirmation")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runRegister(opts *CredentialOptions, cmd *cobra.Command) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	if opts.Password == "" {
		opts.Password = readLine(in)
		if opts.Confirm == "" {
			opts.Confirm = readLine(in)
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
		u, err := c.Register(ctx, opts.Email, opts.Password, opts.Confirm)
		if err != nil {
			return err
		}
		return out.Emit(u, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "registered %s, run `linkveo login` to sign in\n", u.Email)
			return err
		})
	})
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
				c.Logout(ctx)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return err
			})
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
				s := c.Session()
				return out.Emit(s, func(w io.Writer) error { return writeSession(w, s) })
			})
		},
	}
}

func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		return ""
	}
	return strings.TrimRight(in.Text(), "\r")
}

var errArgs = errors.New("invalid arguments")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errArgs, fmt.Sprintf(format, args...))
}

// selector parses the --folder flag.
func selector(raw string) (domain.Selector, error) {
	s, err := domain.ParseSelector(raw)
	if err != nil {
		return s, usageError("--folder takes a folder id or %q", domain.UncategorizedKey)
	}
	return s, nil
}
