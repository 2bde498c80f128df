package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "gallery.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", SQLiteDSN("gallery.db"))
	assert.Equal(t, "file:x?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000",
		SQLiteDSN("file:x?mode=memory&cache=shared"))
}

func TestInitAndMigrate(t *testing.T) {
	db, err := InitGormDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), "silent")
	require.NoError(t, err)
	require.NoError(t, AutoMigrateModels(db))

	for _, table := range []string{"users", "locations", "people", "albums", "photos", "thumbnails", "actions", "photo_people"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
