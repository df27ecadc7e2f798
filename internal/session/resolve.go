package session

import (
	"os"

	"github.com/matheus3301/crawlspace/internal/config"
)

// ArchiveEnv selects the archive folder when no flag is given.
const ArchiveEnv = "CRAWLSPACE_ARCHIVE"

// ResolveArchive determines the archive folder using precedence:
// 1. flagOverride (--archive flag)
// 2. $CRAWLSPACE_ARCHIVE
// 3. config.toml default_archive
// An empty result means no archive was selected.
func ResolveArchive(flagOverride string, cfg *config.Config) string {
	if flagOverride != "" {
		return flagOverride
	}
	if env := os.Getenv(ArchiveEnv); env != "" {
		return env
	}
	if cfg != nil {
		return cfg.DefaultArchive
	}
	return ""
}
