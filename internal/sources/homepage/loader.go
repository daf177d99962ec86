// Package homepage reads gethomepage.dev configuration files and turns them
// into bookmarks ready to import.
package homepage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// Kind selects the Homepage file layout.
type Kind string

const (
	KindBookmarks Kind = "bookmarks"
	KindServices  Kind = "services"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// DetectKind guesses the layout from the file name, defaulting to bookmarks.
func DetectKind(path string) Kind {
	if strings.HasPrefix(strings.ToLower(filepath.Base(path)), "services") {
		return KindServices
	}
	return KindBookmarks
}

// ParseKind validates a user-supplied layout name.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindBookmarks, KindServices:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown homepage file kind %q", domain.ErrValidation, raw)
	}
}

// Load reads path and maps it to import entries.
func Load(path string, kind Kind) ([]domain.ImportEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return Parse(data, kind)
}

// Parse maps raw YAML to import entries. Each category or group becomes a
// folder name.
func Parse(data []byte, kind Kind) ([]domain.ImportEntry, error) {
	// Homepage template variables ({{HOMEPAGE_VAR_...}}) are not resolvable here.
	data = stripTemplateVariables(data)

	switch kind {
	case KindServices:
		var cfg ServicesConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse services yaml: %w", err)
		}
		return MapServices(cfg)
	case KindBookmarks:
		var cfg BookmarksConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
		}
		return MapBookmarks(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown homepage file kind %q", domain.ErrValidation, kind)
	}
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
