package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_LogsThroughZerolog(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	require.NoError(t, migrate(context.Background(), db, zerolog.New(&buf)))

	out := buf.String()
	assert.Contains(t, out, `"component":"goose"`)
	assert.Contains(t, out, "00001_create_accounts.sql")
	assert.NotContains(t, out, `\n"`)
}

func TestMigrationLogger_Printf(t *testing.T) {
	var buf bytes.Buffer
	migrationLogger{log: zerolog.New(&buf)}.Printf("OK   %s\n", "00001_create_accounts.sql")

	assert.JSONEq(t, `{"level":"info","message":"OK   00001_create_accounts.sql"}`, buf.String())
}
