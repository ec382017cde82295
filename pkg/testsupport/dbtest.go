package testsupport

import (
	"database/sql"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN names a fresh shared-cache in-memory SQLite database. Every call
// returns a new name so tests never see each other's rows.
func MemoryDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

// NewSQLiteMemoryDB opens MemoryDSN with the go-sqlite3 driver.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", MemoryDSN())
}
