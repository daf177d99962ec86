package domain

import "net/url"

// PlaceholderTitle is used when a bookmark URL has no parsable host.
const PlaceholderTitle = "New Link"

// Bookmark represents a saved link as returned by the Resource Service.
// The server assigns the ID; the client only proposes URL, Title and FolderID.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (server-assigned)
	// ─────────────────────────────

	// ID is the unique identifier assigned by the Resource Service.
	ID int64 `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is the saved address.
	// Example: https://go.dev/doc/
	URL string `json:"url"`

	// Title defaults to the URL host when created by this client.
	Title string `json:"title"`

	// ImageURL is the preview image scraped by the server, if any.
	ImageURL string `json:"image_url,omitempty"`

	// ─────────────────────────────
	// Organization
	// ─────────────────────────────

	// FolderID references Folder.ID. Nil means "uncategorized".
	FolderID *int64 `json:"folder_id,omitempty"`
}

// InFolder reports whether the bookmark belongs to the given folder.
func (b Bookmark) InFolder(id int64) bool {
	return b.FolderID != nil && *b.FolderID == id
}

// Folder groups bookmarks. Same ownership pattern as Bookmark.
type Folder struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookmarkDraft is the record proposed to the Resource Service on create.
type BookmarkDraft struct {
	URL      string
	Title    string
	FolderID *int64
}

// NewBookmarkDraft builds a draft whose title is derived from the URL host.
func NewBookmarkDraft(rawURL string, folderID *int64) BookmarkDraft {
	return BookmarkDraft{
		URL:      rawURL,
		Title:    DefaultTitle(rawURL),
		FolderID: folderID,
	}
}

// DefaultTitle extracts the host component of rawURL.
// Relative or unparsable input yields PlaceholderTitle.
// Examples:
//
//	"https://www.youtube.com/watch?v=1" -> "www.youtube.com"
//	"not a url" -> "New Link"
func DefaultTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return PlaceholderTitle
	}
	host := u.Hostname()
	if host == "" {
		return PlaceholderTitle
	}
	return host
}

// Int64 returns a pointer to v. Handy for optional folder IDs.
func Int64(v int64) *int64 {
	return &v
}

// ImportEntry is a bookmark read from an external source. Folder is the
// folder name to file it under; empty means uncategorized.
type ImportEntry struct {
	Folder string `json:"folder,omitempty"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}
