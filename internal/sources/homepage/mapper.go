package homepage

import (
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// ErrNoEntries is returned when a file holds nothing importable.
var ErrNoEntries = errors.New("no importable links found")

// entrySet collects entries in file order, keeping the first of duplicate URLs.
type entrySet struct {
	seen    map[string]struct{}
	entries []domain.ImportEntry
}

func (s *entrySet) add(folder, title, href string) {
	href = strings.TrimSpace(href)
	if !importable(href) {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, dup := s.seen[href]; dup {
		return
	}
	s.seen[href] = struct{}{}

	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultTitle(href)
	}
	s.entries = append(s.entries, domain.ImportEntry{
		Folder: strings.TrimSpace(folder),
		Title:  title,
		URL:    href,
	})
}

func (s *entrySet) result() ([]domain.ImportEntry, error) {
	if len(s.entries) == 0 {
		return nil, ErrNoEntries
	}
	return s.entries, nil
}

// MapBookmarks flattens bookmarks.yaml. The bookmark name is the title,
// abbr is used when the name is blank.
func MapBookmarks(cfg BookmarksConfig) ([]domain.ImportEntry, error) {
	var set entrySet
	for _, category := range cfg {
		for _, folder := range sortedKeys(category) {
			for _, bookmark := range category[folder] {
				for _, name := range sortedKeys(bookmark) {
					list := bookmark[name]
					if len(list) == 0 {
						continue
					}
					entry := list[0]
					title := name
					if strings.TrimSpace(title) == "" {
						title = entry.Abbr
					}
					set.add(folder, title, entry.Href)
				}
			}
		}
	}
	return set.result()
}

// MapServices flattens services.yaml. Services without an absolute
// http(s) href are skipped.
func MapServices(cfg ServicesConfig) ([]domain.ImportEntry, error) {
	var set entrySet
	for _, group := range cfg {
		for _, folder := range sortedKeys(group) {
			for _, service := range group[folder] {
				for _, name := range sortedKeys(service) {
					set.add(folder, name, service[name].Href)
				}
			}
		}
	}
	return set.result()
}

func importable(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// sortedKeys gives a stable order for the rare multi-key item.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
