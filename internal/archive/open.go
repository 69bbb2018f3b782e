package archive

import (
	"fmt"
	"strings"

	"github.com/aumai/alignment/internal/config"
)

const DefaultSQLitePath = "data/alignment.db"

// Open builds a Store from config. The "none" type (the default) returns a
// nil store: archiving is opt-in and the core never depends on it.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("archive: missing config")
	}

	archiveType := strings.ToLower(strings.TrimSpace(cfg.Archive.Type))
	switch archiveType {
	case "", "none":
		return nil, nil
	case "sqlite":
		path := strings.TrimSpace(cfg.Archive.Path)
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewStore(path)
	case "memory":
		return NewStore(":memory:")
	default:
		return nil, fmt.Errorf("archive: unsupported type %q", archiveType)
	}
}
