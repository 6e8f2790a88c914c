package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stores and the goose migrations both name columns; nothing ties them
// together until a query actually runs. These tests parse the CREATE TABLE
// statements and check every column the store statements reference against
// them, so a rename on either side fails fast without a database.

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\);`)
	insertRe      = regexp.MustCompile(`INSERT INTO (\w+) \(([^)]*)\)`)
)

// migrationColumns returns table -> column set parsed from migrations/.
func migrationColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()

	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	tables := make(map[string]map[string]bool)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		ddl, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)

		for _, match := range createTableRe.FindAllStringSubmatch(string(ddl), -1) {
			columns := make(map[string]bool)
			for _, line := range strings.Split(match[2], ",") {
				fields := strings.Fields(line)
				if len(fields) == 0 || strings.EqualFold(fields[0], "CONSTRAINT") {
					continue
				}
				columns[fields[0]] = true
			}
			tables[match[1]] = columns
		}
	}
	require.NotEmpty(t, tables)
	return tables
}

// storeInsertColumns extracts the column lists of every INSERT statement in
// the store sources, keyed by table.
func storeInsertColumns(t *testing.T) map[string][]string {
	t.Helper()

	inserts := make(map[string][]string)
	entries, err := os.ReadDir(".")
	require.NoError(t, err)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), "_store.go") {
			continue
		}
		src, err := os.ReadFile(entry.Name())
		require.NoError(t, err)

		for _, match := range insertRe.FindAllStringSubmatch(string(src), -1) {
			for _, column := range strings.Split(match[2], ",") {
				inserts[match[1]] = append(inserts[match[1]], strings.TrimSpace(column))
			}
		}
	}
	require.NotEmpty(t, inserts)
	return inserts
}

func TestStoreInsertsMatchMigrationSchema(t *testing.T) {
	t.Parallel()

	tables := migrationColumns(t)
	for table, columns := range storeInsertColumns(t) {
		ddl, ok := tables[table]
		require.True(t, ok, "no migration creates table %q", table)
		for _, column := range columns {
			assert.True(t, ddl[column],
				"store inserts into %s.%s but the migration does not create it", table, column)
		}
	}
}

func TestStoreReadColumnsMatchMigrationSchema(t *testing.T) {
	t.Parallel()

	// Columns each store scans back, mirroring its SELECT lists.
	reads := map[string][]string{
		"users":          {"id", "username", "email", "hashed_password", "created_at"},
		"subjects":       {"id", "name", "description", "color", "user_id", "created_at"},
		"study_sessions": {"id", "topic", "duration_minutes", "notes", "date", "created_at", "user_id", "subject_id"},
	}

	tables := migrationColumns(t)
	for table, columns := range reads {
		ddl, ok := tables[table]
		require.True(t, ok, "no migration creates table %q", table)
		for _, column := range columns {
			assert.True(t, ddl[column],
				"store reads %s.%s but the migration does not create it", table, column)
		}
	}
}
