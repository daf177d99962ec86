package homepage

// Homepage files use dynamic keys: every list item is a single-key map from
// a display name to its properties.

// ServicesConfig is the root structure of services.yaml:
//
//	- Group:
//	    - Service Name:
//	        href: https://...
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps are the service properties relevant to import.
type ServiceProps struct {
	Href        string `yaml:"href"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// BookmarksConfig is the root structure of bookmarks.yaml:
//
//	- Category:
//	    - Bookmark Name:
//	        - abbr: XX
//	          href: https://...
type BookmarksConfig []map[string][]map[string][]BookmarkEntry

// BookmarkEntry is the single property block of a bookmark.
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}
