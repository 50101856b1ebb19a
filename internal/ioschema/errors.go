package ioschema

import (
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError is returned when a schema operation runs before
// the database connection is open.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Schema operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// CreateSchemaError is returned when AutoMigrate fails on a new database.
func CreateSchemaError(err error) error {
	msg := `Cannot create database schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - Tables left from an older, incompatible version

<em>How to fix:</em>
  1. Check the database user can CREATE tables
  2. Run <em>filmdb create --force</em> to start from scratch`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError is returned when AutoMigrate fails on an existing
// database.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate database schema

<em>Possible causes:</em>
  - Existing rows violate a new constraint
  - Insufficient database permissions

<em>How to fix:</em>
  1. Check the database log for the failing statement
  2. Back up the data before changing it by hand`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// IndexError is returned when a search index cannot be built.
func IndexError(index string, err error) error {
	return &gn.Error{
		Code: errcode.SchemaIndexError,
		Msg:  "Cannot create index <em>%s</em>",
		Vars: []any{index},
		Err:  fmt.Errorf("failed to create index %s: %w", index, err),
	}
}
