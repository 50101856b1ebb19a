package lifecycle_test

import (
	"testing"

	"github.com/filmograph/filmdb/internal/iodb"
	"github.com/filmograph/filmdb/internal/ioschema"
	"github.com/filmograph/filmdb/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestSchemaManagerContract(t *testing.T) {
	var sm lifecycle.SchemaManager = ioschema.NewManager(iodb.NewSQLiteOperator())
	assert.NotNil(t, sm)
}
