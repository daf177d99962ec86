package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkveo/internal/core"
	"github.com/MrSnakeDoc/linkveo/internal/sources/homepage"
)

// LinksOptions holds flags for the links subcommands.
type LinksOptions struct {
	*RootOptions
	Folder   string
	FolderID int64
	Kind     string
}

// NewLinksCommand creates the links command group.
func NewLinksCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LinksOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "links",
		Short: "List, add, remove and import bookmarks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinksList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Folder, "folder", "", `folder id or "uncategorized" (default all)`)

	add := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark titled after the URL host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinksAdd(opts, args[0], cmd)
		},
	}
	add.Flags().Int64Var(&opts.FolderID, "folder-id", 0, "file the bookmark under this folder")

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinksRemove(opts, args[0], cmd)
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a Homepage bookmarks.yaml or services.yaml",
		Long: `Import entries from a Homepage configuration file. Each group becomes a
folder (reused when one with the same name exists) and each entry a
bookmark. URLs already saved are skipped.

The file kind is detected from its name unless --kind is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinksImport(opts, args[0], cmd)
		},
	}
	imp.Flags().StringVar(&opts.Kind, "kind", "", "bookmarks|services")

	cmd.AddCommand(list, add, rm, imp)
	return cmd
}

func runLinksList(opts *LinksOptions, cmd *cobra.Command) error {
	sel, err := selector(opts.Folder)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
		if err := c.FetchAll(ctx); err != nil {
			return err
		}
		bookmarks := c.Bookmarks(sel)
		return out.Emit(bookmarks, func(w io.Writer) error { return writeBookmarks(w, bookmarks) })
	})
}

func runLinksAdd(opts *LinksOptions, rawURL string, cmd *cobra.Command) error {
	var folderID *int64
	if cmd.Flags().Changed("folder-id") {
		folderID = &opts.FolderID
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
		b, err := c.CreateBookmark(ctx, rawURL, folderID)
		if err != nil {
			return err
		}
		return out.Emit(b, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "added %d %s\n", b.ID, b.Title)
			return err
		})
	})
}

func runLinksRemove(opts *LinksOptions, rawID string, cmd *cobra.Command) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return usageError("bookmark id must be a number, got %q", rawID)
	}

	return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
		if err := c.DeleteBookmark(ctx, id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
		return err
	})
}

func runLinksImport(opts *LinksOptions, path string, cmd *cobra.Command) error {
	kind := homepage.DetectKind(path)
	if opts.Kind != "" {
		k, err := homepage.ParseKind(opts.Kind)
		if err != nil {
			return usageError("--kind must be bookmarks or services")
		}
		kind = k
	}

	entries, err := homepage.Load(path, kind)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return opts.withCore(cmd, func(ctx context.Context, c *core.Core) error {
		res, err := c.Import(ctx, entries)
		if err != nil {
			return err
		}
		return out.Emit(res, func(w io.Writer) error {
			fmt.Fprintf(w, "created %d bookmarks, %d folders, skipped %d\n", res.Created, res.FoldersCreated, res.Skipped)
			for _, f := range res.Failed {
				fmt.Fprintf(w, "failed: %s\n", f)
			}
			return nil
		})
	})
}
