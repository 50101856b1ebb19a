package db

import (
	"context"

	"github.com/filmograph/filmdb/pkg/config"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It owns the connection lifecycle and exposes a GORM handle that catalog,
// ranking and weekly stores share. PostgreSQL and SQLite implementations
// live in internal/iodb.
type Operator interface {
	// Connect opens the database and verifies the connection.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close releases the database connections.
	Close() error

	// DB returns the GORM handle, nil before Connect.
	DB() *gorm.DB

	// Driver returns "postgres" or "sqlite".
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any user tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all user tables.
	// Used during schema creation when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
