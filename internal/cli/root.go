// Package cli implements the linkveo command line. Each command builds the
// core, restores the stored session, runs one operation and prints its
// result on stdout. Logs go to stderr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkveo/internal/app"
	"github.com/MrSnakeDoc/linkveo/internal/config"
	"github.com/MrSnakeDoc/linkveo/internal/core"
	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
	"github.com/MrSnakeDoc/linkveo/internal/utils"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the linkveo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "linkveo",
		Short: "linkveo - bookmarks from the command line",
		Long: `Manage a linkveo bookmark account: log in once, then list, add and
remove bookmarks and folders. The session is kept in the configured
credential store (LINKVEO_CREDENTIAL_BACKEND).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewLinksCommand(opts))
	cmd.AddCommand(NewFoldersCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// open loads the configuration and builds the application.
func (o *RootOptions) open(ctx context.Context) (*app.App, logger.Logger, error) {
	cfg := config.Load()
	level := cfg.LogLevel
	if o.Verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.PrettyLog)

	a, err := app.New(ctx, cfg, log)
	return a, log, err
}

// withCore runs fn against a freshly restored core and releases the
// credential store afterwards.
func (o *RootOptions) withCore(cmd *cobra.Command, fn func(ctx context.Context, c *core.Core) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, log, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer utils.CloseLogged(a, log, "credential store")

	return explain(fn(ctx, a.Core()))
}

// explain turns core errors into messages suited for a terminal.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotAuthenticated):
		msg := "not logged in, run `linkveo login`"
		if errors.Is(err, domain.ErrUnauthorized) {
			msg = "session expired, run `linkveo login`"
		}
		return errors.New(msg)
	default:
		return errors.New(domain.UserMessage(err, err.Error()))
	}
}
