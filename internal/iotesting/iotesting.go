// Package iotesting provides shared test utilities.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/filmograph/filmdb/internal/iodb"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/db"
	"github.com/filmograph/filmdb/pkg/schema"
	"gorm.io/gorm"
)

const (
	// TestDatabaseName is the PostgreSQL database used by integration tests.
	// Tests never run against the production database name.
	TestDatabaseName = "filmdb_test"
)

// NewOperator returns a connected SQLite operator with a migrated schema
// in a temporary directory. The database is closed when the test ends.
func NewOperator(t *testing.T) db.Operator {
	t.Helper()

	cfg := config.New().Database
	cfg.Driver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "filmdb.sqlite")

	op := iodb.NewSQLiteOperator()
	if err := op.Connect(context.Background(), &cfg); err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	if err := schema.Migrate(op.DB()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return op
}

// NewDB is NewOperator for tests that only need the GORM handle.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    gdb := iotesting.NewDB(t)
//	    store := iocatalog.New(gdb)
//	    // ...
//	}
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return NewOperator(t).DB()
}

// TestConfig returns the default configuration with HomeDir in a
// temporary directory and the test database name.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptDatabaseDatabase(TestDatabaseName),
	})
	return cfg
}

// ReadFixture returns the content of testdata/<name> relative to the
// package under test.
func ReadFixture(t *testing.T, name string) string {
	t.Helper()
	res, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return string(res)
}
