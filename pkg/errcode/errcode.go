package errcode

import (
	"errors"
	"slices"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Error taxonomy shared by the catalog operations
	InvalidArgumentError
	NotFoundError
	UpstreamUnavailableError
	ProviderNotConfiguredError
	ConflictError

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError

	// Catalog store errors
	CatalogQueryError
	CatalogWriteError

	// Ranking errors
	RankingRegionError
	RankingWriteError
	RankingQueryError

	// Weekly spreadsheet errors
	WeeklyOpenError
	WeeklyHeaderError
	WeeklyWriteError
	WeeklyQueryError

	// Schedule errors
	ScheduleCronError
	ScheduleTimezoneError

	// Provider transport errors
	ResponseTooLargeError
)

// Code returns the code of the outermost *gn.Error in the chain of err.
// It returns UnknownError when err is nil or carries no code.
func Code(err error) gn.ErrorCode {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code
	}
	return UnknownError
}

// Is reports whether err carries one of the given codes.
func Is(err error, codes ...gn.ErrorCode) bool {
	if err == nil {
		return false
	}
	return slices.Contains(codes, Code(err))
}

// IsUpstream reports whether err belongs to the UpstreamUnavailable
// kind, a missing provider credential included.
func IsUpstream(err error) bool {
	return Is(err, UpstreamUnavailableError, ProviderNotConfiguredError)
}
