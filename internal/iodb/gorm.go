package iodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openGORM(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: newGORMLogger(slogWriter{}),
	})
}

func newGORMLogger(w gormlogger.Writer) gormlogger.Interface {
	return conflictFilter{gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})}
}

// conflictFilter drops failed statements that are unique violations.
// Stores resolve those as conflicts, they are not failures.
type conflictFilter struct {
	gormlogger.Interface
}

func (l conflictFilter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return conflictFilter{l.Interface.LogMode(level)}
}

func (l conflictFilter) Trace(
	ctx context.Context,
	begin time.Time,
	fc func() (string, int64),
	err error,
) {
	if IsUniqueViolation(err) {
		err = nil
	}
	l.Interface.Trace(ctx, begin, fc, err)
}

// slogWriter sends GORM warnings (slow queries, failed statements)
// to the application log instead of STDOUT.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	slog.Warn("SQL", "msg", fmt.Sprintf(format, args...))
}

// IsUniqueViolation reports whether err comes from a unique constraint,
// for both PostgreSQL and SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
