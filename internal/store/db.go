// Package store persists accepted contract revisions so a session's history
// survives restarts and can be replayed or exported later.
package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenFromURL opens a GORM DB based on a simple db-url string.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./provizor.db or sqlite::memory:
//   - sqlite3:<dsn>  alias of sqlite
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"):
		dsn := strings.TrimPrefix(dbURL, "sqlite:")
		if dsn == "" {
			dsn = "./provizor.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case strings.HasPrefix(dbURL, "sqlite3:"):
		dsn := strings.TrimPrefix(dbURL, "sqlite3:")
		if dsn == "" {
			dsn = "./provizor.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}

// AutoMigrate applies schema migrations for all store models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&CredentialRecord{}, &RevisionRecord{})
}
