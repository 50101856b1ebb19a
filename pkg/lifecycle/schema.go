// Package lifecycle declares the database lifecycle operations driven by
// the create and migrate commands.
package lifecycle

import "context"

// SchemaManager creates and updates the database schema.
// Both operations are idempotent.
type SchemaManager interface {
	// Create builds the tables and indexes of an empty database.
	// Dropping existing tables is the caller's decision.
	Create(ctx context.Context) error

	// Migrate updates the tables to the current models keeping the data.
	Migrate(ctx context.Context) error
}
