package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MrSnakeDoc/linkveo/internal/utils"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS credential_slots (
	slot  TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteBackend keeps the slots in a SQLite table and replaces them inside a
// single transaction.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		utils.Close(db)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		sqliteSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			utils.Close(db)
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
	}

	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Read(ctx context.Context) (Slots, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT slot, value FROM credential_slots")
	if err != nil {
		return Slots{}, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var slots Slots
	for rows.Next() {
		var slot, value string
		if err := rows.Scan(&slot, &value); err != nil {
			return Slots{}, fmt.Errorf("failed to scan credential slot: %w", err)
		}
		switch slot {
		case SlotToken:
			slots.Token = value
		case SlotUser:
			slots.User = value
		}
	}
	if err := rows.Err(); err != nil {
		return Slots{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	return slots, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, slots Slots) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM credential_slots"); err != nil {
		return fmt.Errorf("failed to reset credentials: %w", err)
	}
	for slot, value := range map[string]string{SlotToken: slots.Token, SlotUser: slots.User} {
		if value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO credential_slots (slot, value) VALUES (?, ?)", slot, value); err != nil {
			return fmt.Errorf("failed to write %s slot: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credentials: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM credential_slots"); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
