package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// UncategorizedKey is the external spelling of the "no folder" selector.
const UncategorizedKey = "uncategorized"

type selectorKind int

const (
	selectAll selectorKind = iota
	selectUncategorized
	selectFolder
)

// Selector chooses which bookmarks a folder view shows.
// The zero value selects everything.
type Selector struct {
	kind     selectorKind
	folderID int64
}

// AllBookmarks selects every bookmark.
func AllBookmarks() Selector { return Selector{kind: selectAll} }

// Uncategorized selects bookmarks without a folder.
func Uncategorized() Selector { return Selector{kind: selectUncategorized} }

// InFolder selects bookmarks whose FolderID equals id.
func InFolder(id int64) Selector { return Selector{kind: selectFolder, folderID: id} }

// ParseSelector maps "" to all, "uncategorized" to Uncategorized
// and a decimal folder ID to InFolder.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return AllBookmarks(), nil
	case UncategorizedKey:
		return Uncategorized(), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Selector{}, &ValidationError{
			Field:  "folder",
			Reason: fmt.Sprintf("invalid folder selector %q: use a folder id or %q", raw, UncategorizedKey),
		}
	}
	return InFolder(id), nil
}

// Match reports whether b is selected.
func (s Selector) Match(b Bookmark) bool {
	switch s.kind {
	case selectUncategorized:
		return b.FolderID == nil
	case selectFolder:
		return b.InFolder(s.folderID)
	default:
		return true
	}
}

func (s Selector) String() string {
	switch s.kind {
	case selectUncategorized:
		return UncategorizedKey
	case selectFolder:
		return strconv.FormatInt(s.folderID, 10)
	default:
		return "all"
	}
}

// FilterBookmarks returns a new slice with the selected bookmarks in their
// original order. The input slice is never modified.
func FilterBookmarks(bookmarks []Bookmark, s Selector) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if s.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
