package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Emit writes v as indented JSON, or calls text with the writer.
func (f *OutputFormatter) Emit(v any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(f.Writer)
}

func writeBookmarks(w io.Writer, bookmarks []domain.Bookmark) error {
	if len(bookmarks) == 0 {
		_, err := fmt.Fprintln(w, "no bookmarks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFOLDER\tURL")
	for _, b := range bookmarks {
		folder := "-"
		if b.FolderID != nil {
			folder = fmt.Sprint(*b.FolderID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, b.Title, folder, b.URL)
	}
	return tw.Flush()
}

func writeFolders(w io.Writer, folders []domain.Folder) error {
	if len(folders) == 0 {
		_, err := fmt.Fprintln(w, "no folders")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, f := range folders {
		fmt.Fprintf(tw, "%d\t%s\n", f.ID, f.Name)
	}
	return tw.Flush()
}

func writeSession(w io.Writer, s domain.Session) error {
	if !s.Authenticated || s.User == nil {
		_, err := fmt.Fprintln(w, "not logged in")
		return err
	}
	_, err := fmt.Fprintf(w, "logged in as %s (id %d)\n", s.User.Email, s.User.ID)
	return err
}
