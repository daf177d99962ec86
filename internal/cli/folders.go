package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkveo/internal/core"
)

// NewFoldersCommand creates the folders command group.
func NewFoldersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List and create folders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
				if err := c.FetchAll(ctx); err != nil {
					return err
				}
				folders := c.Folders()
				return out.Emit(folders, func(w io.Writer) error { return writeFolders(w, folders) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
				f, err := c.CreateFolder(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Emit(f, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "created folder %d %s\n", f.ID, f.Name)
					return err
				})
			})
		},
	})

	return cmd
}
