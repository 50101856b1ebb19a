package iodb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// sqliteOperator implements db.Operator on a pure-Go SQLite file.
// It is used for single-machine installs and by store tests.
type sqliteOperator struct {
	path  string
	sqlDB *sql.DB
	gdb   *gorm.DB
}

// NewSQLiteOperator creates a new SQLite operator (without connecting).
func NewSQLiteOperator() db.Operator {
	return &sqliteOperator{}
}

// SQLiteDSN returns the modernc DSN for a database file with foreign keys
// enforced and a busy timeout set on every connection.
func SQLiteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)&_time_format=sqlite"
}

// Connect opens cfg.SQLitePath. The path must already be resolved,
// see config.SQLiteFilePath.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.SQLitePath
	sqlDB, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return SQLiteOpenError(path, err)
	}
	// SQLite has one writer, a single connection keeps writers queued
	// in Go instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return SQLiteOpenError(path, err)
	}

	gdb, err := openGORM(sqlite.New(sqlite.Config{Conn: sqlDB}))
	if err != nil {
		_ = sqlDB.Close()
		return GORMError(err)
	}

	s.path = path
	s.sqlDB = sqlDB
	s.gdb = gdb
	return nil
}

func (s *sqliteOperator) Close() error {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	s.gdb = nil
	return nil
}

func (s *sqliteOperator) DB() *gorm.DB {
	return s.gdb
}

func (s *sqliteOperator) Driver() string {
	return "sqlite"
}

func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.gdb == nil {
		return false, NotConnectedError()
	}
	var count int64
	err := s.gdb.WithContext(ctx).Raw(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		tableName,
	).Scan(&count).Error
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return count > 0, nil
}

func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	if s.gdb == nil {
		return false, NotConnectedError()
	}
	tables, err := s.tables(ctx)
	if err != nil {
		return false, TableCheckError(err)
	}
	return len(tables) > 0, nil
}

// DropAllTables drops every user table. Foreign keys are switched off
// for the duration so the order of drops does not matter.
func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	if s.gdb == nil {
		return NotConnectedError()
	}
	tables, err := s.tables(ctx)
	if err != nil {
		return QueryTablesError(err)
	}

	gdb := s.gdb.WithContext(ctx)
	if err = gdb.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		return QueryTablesError(err)
	}
	defer gdb.Exec("PRAGMA foreign_keys = ON")

	for _, table := range tables {
		dropSQL := fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)
		if err = gdb.Exec(dropSQL).Error; err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func (s *sqliteOperator) tables(ctx context.Context) ([]string, error) {
	var res []string
	err := s.gdb.WithContext(ctx).Raw(
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`,
	).Scan(&res).Error
	return res, err
}
