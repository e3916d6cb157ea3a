package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Sentinel errors shared by the repositories.
var (
	ErrNotFound       = errors.New("not found")
	ErrTerminalStatus = errors.New("already in a terminal state")
)

type DB struct {
	conn   *sql.DB
	dbType string
}

type Config struct {
	Type       string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SQLitePath string
}

func NewDB(config Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch config.Type {
	case "sqlite":
		conn, err = sql.Open("sqlite3", config.SQLitePath)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			config.Host, config.Port, config.User, config.Password, config.Name)
		conn, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, dbType: config.Type}

	// Only create tables for SQLite; postgres schema comes from migrations.
	if config.Type == "sqlite" {
		if err := db.createTables(); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return db, nil
}

func (db *DB) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS media_items (
		id TEXT PRIMARY KEY,
		frame_urls TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'uploaded',
		ocr_text TEXT NOT NULL DEFAULT '',
		restaurant_id TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		provider_place_id TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL DEFAULT 0,
		lng REAL NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0,
		categories TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL,
		UNIQUE (provider, provider_place_id)
	);

	CREATE TABLE IF NOT EXISTS place_cache (
		normalized_query TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL,
		place_id TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL DEFAULT 0,
		lng REAL NOT NULL DEFAULT 0,
		score REAL NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (normalized_query, country, city)
	);
	`

	_, err := db.conn.Exec(query)
	return err
}

func (db *DB) RunMigrations(migrationsPath string) error {
	migrator := NewMigrator(db.conn, db.dbType)
	return migrator.Run(migrationsPath)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

// rebind converts ?-style placeholders to $N for postgres. Repository queries
// are written once with ? and rebound per driver.
func (db *DB) rebind(query string) string {
	if db.dbType != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
