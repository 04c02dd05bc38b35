package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config describes how to reach the database
type Config struct {
	Driver string // "sqlite3" or "postgres"
	DSN    string
}

// ConfigFromEnv builds a Config from environment variables. DB_TYPE
// selects the backend (sqlite by default); sqlite uses DATABASE_PATH,
// postgres uses DATABASE_URL.
func ConfigFromEnv() Config {
	if os.Getenv("DB_TYPE") == "postgres" {
		return Config{Driver: "postgres", DSN: os.Getenv("DATABASE_URL")}
	}
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = filepath.Join("data", "studybot.db")
	}
	return Config{Driver: "sqlite3", DSN: path}
}

// Connect opens the database and creates the schema. The returned handle
// is passed to repository constructors; there is no package-level
// connection state.
func Connect(cfg Config) (*sqlx.DB, error) {
	if cfg.Driver == "sqlite3" && cfg.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if cfg.Driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS topics (
				id %s,
				name TEXT NOT NULL UNIQUE,
				icon TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS files (
				id %s,
				name TEXT NOT NULL,
				path TEXT NOT NULL DEFAULT '',
				topic_id INTEGER NOT NULL,
				total_pages INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				FOREIGN KEY (topic_id) REFERENCES topics(id),
				UNIQUE(name, topic_id)
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS milestones (
				id %s,
				key TEXT NOT NULL UNIQUE,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				celebration_message TEXT NOT NULL DEFAULT '',
				icon TEXT NOT NULL DEFAULT '',
				trigger_condition TEXT NOT NULL DEFAULT '{}',
				xp_bonus INTEGER NOT NULL DEFAULT 0,
				last_triggered TIMESTAMP,
				times_triggered INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS daily_recommendations (
				id %s,
				date TEXT NOT NULL,
				file_id INTEGER,
				topic_id INTEGER,
				priority INTEGER NOT NULL DEFAULT 0,
				is_completed BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS study_sessions (
				id %s,
				file_id INTEGER,
				topic_id INTEGER,
				pages INTEGER NOT NULL DEFAULT 0,
				minutes INTEGER NOT NULL DEFAULT 0,
				session_date TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS notes (
				id %s,
				file_id INTEGER NOT NULL,
				content TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				FOREIGN KEY (file_id) REFERENCES files(id)
			)
		`, idColumn),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS bookmarks (
				id %s,
				file_id INTEGER NOT NULL,
				page INTEGER NOT NULL DEFAULT 0,
				label TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				FOREIGN KEY (file_id) REFERENCES files(id)
			)
		`, idColumn),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}

// insertReturningID runs an INSERT written with ? placeholders and
// returns the generated id, handling the RETURNING difference between
// the two backends.
func insertReturningID(db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	if db.DriverName() == "postgres" {
		var id int64
		err := db.QueryRow(db.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
